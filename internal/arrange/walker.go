package arrange

// frame is one sibling list on the walk stack. Its siblings are
// aux[start:end]; current is the next sibling to descend into.
type frame struct {
	parent              wrapperID
	start, current, end int
}

// walk visits every non-empty sibling list bottom-up: the children of an
// entry are visited before the list the entry belongs to, and the top
// level last. The walk uses an explicit stack so nesting depth is bounded
// only by memory.
func (t *wrapperTree) walk(visit func(parent wrapperID) error) error {
	aux := append([]wrapperID(nil), t.roots...)
	stack := []frame{{parent: noWrapper, end: len(aux)}}

	for len(stack) > 0 {
		top := len(stack) - 1
		if f := &stack[top]; f.current < f.end {
			id := aux[f.current]
			f.current++
			if kids := t.at(id).children; len(kids) > 0 {
				start := len(aux)
				aux = append(aux, kids...)
				stack = append(stack, frame{parent: id, start: start, current: start, end: len(aux)})
			}
			continue
		}

		f := stack[top]
		stack = stack[:top]
		aux = aux[:f.start]
		if f.end == f.start {
			continue
		}
		if err := visit(f.parent); err != nil {
			return err
		}
	}
	return nil
}
