package smallworld

// Close marks the index as closed. Later inserts and searches return
// ErrClosed; read-only accessors keep working. Close is idempotent.
func (idx *Index) Close() error {
	if idx == nil {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.closed {
		idx.closed = true
		idx.logger.Debug("index closed", "nodes", idx.graph.Len())
	}

	return nil
}
