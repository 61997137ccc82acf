package solid

// union is the set union of its members.
type union struct {
	members []Solid
	bounds  Box
}

// Union combines solids into one. Membership short-circuits on the first
// member whose bounds admit the point.
func Union(members ...Solid) Solid {
	b := Box{}
	for _, m := range members {
		b = b.Union(m.Bounds())
	}
	return union{members: members, bounds: b}
}

func (u union) Contains(p Vec) bool {
	for _, m := range u.members {
		if m.Contains(p) {
			return true
		}
	}
	return false
}

func (u union) Bounds() Box { return u.bounds }

// difference is base minus every cutter.
type difference struct {
	base    Solid
	cutters []Solid
}

// Difference subtracts the cutters from base. A cutter that lies entirely
// outside base changes nothing; callers that care (the cutout engine)
// check bounds overlap before subtracting.
func Difference(base Solid, cutters ...Solid) Solid {
	return difference{base: base, cutters: cutters}
}

func (d difference) Contains(p Vec) bool {
	if !d.base.Contains(p) {
		return false
	}
	for _, c := range d.cutters {
		if c.Contains(p) {
			return false
		}
	}
	return true
}

func (d difference) Bounds() Box { return d.base.Bounds() }

// intersection keeps only points inside every member.
type intersection struct {
	members []Solid
	bounds  Box
}

// Intersection keeps the common region of all members.
func Intersection(members ...Solid) Solid {
	if len(members) == 0 {
		return union{}
	}
	b := members[0].Bounds()
	for _, m := range members[1:] {
		b = b.Intersect(m.Bounds())
	}
	return intersection{members: members, bounds: b}
}

func (i intersection) Contains(p Vec) bool {
	for _, m := range i.members {
		if !m.Contains(p) {
			return false
		}
	}
	return true
}

func (i intersection) Bounds() Box { return i.bounds }
