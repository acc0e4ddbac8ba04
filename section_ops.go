package orgtree

// NewSection parses text as a single section and returns a handle usable
// with Append/Prepend/InsertBefore/InsertAfter/SetRaw. A lone top-level
// headline collapses to that headline itself only when nothing at all
// preceded it (no swallowed blank line); a blank line preceding it is
// preserved by returning the root instead, with the headline as its child.
// Multiple top-level headlines are ambiguous and rejected (Section 4.1
// "new_section").
func (a *Arena) NewSection(text string) (Section, error) {
	root, emptyRootSection, _ := parseInto(a, text)
	children := root.Children(a)

	switch {
	case len(children) == 0:
		return root, nil
	case len(children) == 1:
		if emptyRootSection && root.Text(a).IsEmpty() {
			return children[0], nil
		}
		return root, nil
	default:
		return Section{}, &IndextreeError{Op: "new_section"}
	}
}

// CloneSection duplicates h's own data (level and text), not its children.
// The clone starts detached.
func (a *Arena) CloneSection(h Section) Section {
	n := a.get(h.id)
	return a.newNode(sectionData{level: n.data.level, text: n.data.text})
}

// CloneSubtree recursively duplicates h and its descendants, preserving
// structure. The clone's root starts detached.
func (a *Arena) CloneSubtree(h Section) Section {
	clone := a.CloneSection(h)
	for _, c := range h.Children(a) {
		a.appendChild(clone.id, a.CloneSubtree(c).id)
	}
	return clone
}

// autoBump raises child's level to parent.Level()+1 if it would not
// otherwise strictly dominate the parent, per Section 4.1's "new.level is
// auto-bumped... by prepending '*' characters".
func (a *Arena) autoBump(parent, child Section) {
	pl := parent.Level(a)
	cl := child.Level(a)
	if cl <= pl {
		a.setLevel(child, pl+1)
	}
}

// Append attaches child as parent's last child, detaching it from any
// prior location first. child's level is auto-bumped if it would not
// strictly exceed parent's.
func (a *Arena) Append(parent, child Section) {
	a.autoBump(parent, child)
	a.appendChild(parent.id, child.id)
}

// Prepend attaches child as parent's first child, with the same auto-bump
// behavior as Append.
func (a *Arena) Prepend(parent, child Section) {
	a.autoBump(parent, child)
	a.prependChild(parent.id, child.id)
}

// InsertAfter attaches new as sibling's immediate next sibling, auto-bumping
// new's level against sibling's parent.
func (a *Arena) InsertAfter(sibling, new Section) {
	parent, hasParent := sibling.Parent(a)
	if hasParent {
		a.autoBump(parent, new)
	}
	a.insertAfter(sibling.id, new.id)
}

// InsertBefore attaches new as sibling's immediate previous sibling,
// auto-bumping new's level against sibling's parent.
func (a *Arena) InsertBefore(sibling, new Section) {
	parent, hasParent := sibling.Parent(a)
	if hasParent {
		a.autoBump(parent, new)
	}
	a.insertBefore(sibling.id, new.id)
}

// levelViolation reports the error a checked attach would return: an
// IndextreeError if child is parent itself or one of parent's ancestors
// (attaching it would make it its own descendant), a LevelError if child's
// level does not strictly dominate parent's, or nil.
func levelViolation(op string, a *Arena, parent, child Section) error {
	for _, anc := range parent.Ancestors(a) {
		if anc == child {
			return &IndextreeError{Op: op}
		}
	}
	pl, cl := parent.Level(a), child.Level(a)
	if cl <= pl {
		return &LevelError{Op: op, Level: cl, Against: pl}
	}
	return nil
}

// CheckedAppend attaches child as parent's last child without ever
// mutating levels; returns a LevelError instead if monotonicity would be
// violated.
func (a *Arena) CheckedAppend(parent, child Section) error {
	if err := levelViolation("checked_append", a, parent, child); err != nil {
		return err
	}
	a.appendChild(parent.id, child.id)
	return nil
}

// CheckedPrepend is CheckedAppend's prepend counterpart.
func (a *Arena) CheckedPrepend(parent, child Section) error {
	if err := levelViolation("checked_prepend", a, parent, child); err != nil {
		return err
	}
	a.prependChild(parent.id, child.id)
	return nil
}

// CheckedInsertAfter attaches new after sibling without mutating levels;
// returns a LevelError if new would not strictly dominate sibling's parent
// (a root sibling has no parent, so there is nothing to violate).
func (a *Arena) CheckedInsertAfter(sibling, new Section) error {
	if parent, ok := sibling.Parent(a); ok {
		if err := levelViolation("checked_insert_after", a, parent, new); err != nil {
			return err
		}
	}
	a.insertAfter(sibling.id, new.id)
	return nil
}

// CheckedInsertBefore is CheckedInsertAfter's predecessor counterpart.
func (a *Arena) CheckedInsertBefore(sibling, new Section) error {
	if parent, ok := sibling.Parent(a); ok {
		if err := levelViolation("checked_insert_before", a, parent, new); err != nil {
			return err
		}
	}
	a.insertBefore(sibling.id, new.id)
	return nil
}

// RemoveSubtree detaches h from its parent; h's descendants remain attached
// to h. The detached nodes stay allocated in the arena (Section 5).
func (a *Arena) RemoveSubtree(h Section) {
	a.detach(h.id)
}

// ReplaceWithChildren detaches h but re-attaches its former children, in
// place, under h's former parent. The grandparent's level already
// dominates each child's level by the pre-existing invariants (h.level >
// grandparent.level, and each child.level > h.level).
func (a *Arena) ReplaceWithChildren(h Section) {
	a.removeKeepingChildren(h.id)
}

// SetLevel changes a non-root node's level to level, adjusting its leading
// '*' run. Fails without mutating anything if the parent's level is not
// strictly less than level, if any child's level is not strictly greater
// than level, or if level is 0.
func (sec Section) SetLevel(a *Arena, level uint16) error {
	if level == 0 {
		return &LevelError{Op: "set_level", Level: level, Against: 0}
	}
	if parent, ok := sec.Parent(a); ok {
		if parent.Level(a) >= level {
			return &LevelError{Op: "set_level", Level: level, Against: parent.Level(a)}
		}
	}
	for _, c := range sec.Children(a) {
		if c.Level(a) <= level {
			return &LevelError{Op: "set_level", Level: level, Against: c.Level(a)}
		}
	}
	a.setLevel(sec, level)
	return nil
}

// containsHeadlineLine reports whether any line of text opens a headline,
// used to validate set_raw targets and the headline builder's body field.
func containsHeadlineLine(text string) bool {
	for _, ln := range splitKeepingOffsets(text) {
		if isHeadlineLine(text[ln.start:ln.end]) {
			return true
		}
	}
	return false
}

// SetRaw reparses text as a single section and, if it parses successfully,
// has no child headlines of its own, and its level would respect sec's
// current parent and children, overwrites sec's own level and text in
// place -- sec's existing children are left attached throughout. For the
// document root the replacement must be body-shaped (no headline lines at
// all); for any other section it must itself be a single headline with no
// descendants (a replacement that brings its own children would silently
// discard sec's existing subtree, so it is rejected instead).
func (d *Document) SetRaw(sec Section, text string) error {
	if sec.id == d.Root.id {
		if containsHeadlineLine(text) {
			return &HeadlineError{Kind: ErrInvalidHeadline, Field: "text"}
		}
		n := d.Arena.get(sec.id)
		n.data = sectionData{level: 0, text: RopeFromString(text)}
		return nil
	}

	replacement, err := d.Arena.NewSection(text)
	if err != nil {
		return err
	}
	if replacement.Level(d.Arena) == 0 {
		return &HeadlineError{Kind: ErrInvalidHeadline, Field: "text"}
	}
	if len(replacement.Children(d.Arena)) > 0 {
		return &HeadlineError{Kind: ErrInvalidBody, Field: "text"}
	}

	if parent, ok := sec.Parent(d.Arena); ok {
		if parent.Level(d.Arena) >= replacement.Level(d.Arena) {
			return &LevelError{Op: "set_raw", Level: replacement.Level(d.Arena), Against: parent.Level(d.Arena)}
		}
	}
	for _, c := range sec.Children(d.Arena) {
		if c.Level(d.Arena) <= replacement.Level(d.Arena) {
			return &LevelError{Op: "set_raw", Level: replacement.Level(d.Arena), Against: c.Level(d.Arena)}
		}
	}

	n := d.Arena.get(sec.id)
	n.data = sectionData{level: replacement.Level(d.Arena), text: replacement.Text(d.Arena)}
	return nil
}
