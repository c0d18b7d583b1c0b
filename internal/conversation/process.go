package conversation

// Process linearizes the active branch of a raw conversation graph:
// it walks parent links from the current node up to the root and
// reverses the path, preserving one node per position. Nodes keep
// their message pointer untouched; hidden/system nodes stay in the
// sequence as empty positions.
func Process(raw *Raw) *Result {
	result := &Result{
		ID:         raw.ID,
		Title:      raw.Title,
		CreateTime: raw.CreateTime,
		UpdateTime: raw.UpdateTime,
	}

	var path []RawNode
	seen := make(map[string]bool)
	id := raw.CurrentNode
	for id != "" && !seen[id] {
		node, ok := raw.Mapping[id]
		if !ok {
			break
		}
		seen[id] = true
		path = append(path, node)
		id = node.Parent
	}

	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		result.Nodes = append(result.Nodes, Node{Message: node.Message})
		if result.ModelSlug == "" && node.Message != nil && node.Message.Metadata != nil {
			result.ModelSlug = node.Message.Metadata.ModelSlug
		}
	}

	return result
}
