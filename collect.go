package trellis

// Batch collection: walks both trees once per frame, turning visible widgets
// into merged batch runs. Traversal order is draw order.

// newBatch builds a batch carrying the UI's alignment offset.
func (ui *UI) newBatch(e *Element, blend BlendMode, scissor IntRect, texture *Texture, verts *[]Vertex) Batch {
	b := NewBatch(e, blend, scissor, texture, verts)
	b.SetAlignOffset(ui.alignOffset)
	return b
}

// CollectBatches rebuilds the frame's batch and vertex lists: the normal
// tree, then any modal shade and the modal tree, then the software cursor.
// Render-to-texture surfaces collect into their own lists. Call once per
// frame before Draw.
func (ui *UI) CollectBatches() {
	ui.pruneRenderTargets()
	ui.vertexData = ui.vertexData[:0]
	ui.batches = ui.batches[:0]

	rootRect := IntRect{0, 0, ui.root.Width(), ui.root.Height()}

	ui.collect(ui.root, rootRect)
	ui.nonModalBatchCount = len(ui.batches)

	ui.collectModalShade(rootRect)
	ui.collect(ui.modalRoot, rootRect)

	// The cursor composites above everything unless the OS cursor draws.
	if ui.cursor != nil && !ui.cursor.useSystemShapes {
		ui.batches = ui.buildCursorBatches(ui.cursor.element, ui.batches, &ui.vertexData, rootRect)
	}

	for _, rt := range ui.renderTargets {
		rt.collect(ui)
	}

	ui.stats = Statistics{
		Batches:  len(ui.batches),
		Vertices: len(ui.vertexData),
		Quads:    len(ui.vertexData) / VerticesPerQuad,
	}
}

// collect walks one element's children. The scissor shrinks through clipping
// elements; a subtree whose scissor collapses to zero area prunes entirely.
func (ui *UI) collect(element *Element, scissor IntRect) {
	scissor = element.AdjustScissor(scissor)
	if scissor.Left == scissor.Right || scissor.Top == scissor.Bottom {
		return
	}

	children := element.sortChildrenByPriority()
	if len(children) == 0 {
		return
	}

	if element.Traversal == TraversalBreadthFirst {
		// Emit all same-priority siblings before recursing so their batches
		// can merge; the assumption is they share render state.
		i := 0
		for i < len(children) {
			priority := children[i].Priority
			j := i
			for j < len(children) && children[j].Priority == priority {
				child := children[j]
				if child.Kind != KindCursor && child.IsWithinScissor(scissor) {
					ui.batches = ui.buildBatches(child, ui.batches, &ui.vertexData, scissor)
				}
				j++
			}
			for i < j {
				child := children[i]
				if child.Kind != KindCursor && child.Visible {
					ui.collect(child, scissor)
				}
				i++
			}
		}
		return
	}

	// Depth-first: each child and its whole subtree draw before the next
	// sibling, so overlapping top-level windows never interleave.
	for _, child := range children {
		if child.Kind == KindCursor {
			continue
		}
		if child.IsWithinScissor(scissor) {
			ui.batches = ui.buildBatches(child, ui.batches, &ui.vertexData, scissor)
		}
		if child.Visible {
			ui.collect(child, scissor)
		}
	}
}

// collectModalShade dims the normal tree behind modal elements that request
// it, with one root-sized quad per shaded modal element.
func (ui *UI) collectModalShade(rootRect IntRect) {
	for _, child := range ui.modalRoot.children {
		if !child.Visible || child.ModalShadeColor.A <= 0 {
			continue
		}
		batch := ui.newBatch(ui.modalRoot, BlendAlpha, rootRect, nil, &ui.vertexData)
		batch.SetColor(child.ModalShadeColor, true)
		batch.AddQuad(0, 0, float32(rootRect.Width()), float32(rootRect.Height()), 0, 0, 0, 0)
		ui.batches = AddOrMerge(batch, ui.batches)
	}
}
