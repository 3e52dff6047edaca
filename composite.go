package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//a grouping node owning bodies, constraints and child composites. It has
//no physical meaning, the modified flag tells the engine that cached
//broadphase state is stale.
type Composite struct {
	id       int
	Label    string
	parent   *Composite
	modified bool

	bodies      []*Body
	constraints []*Constraint
	composites  []*Composite
}

func (f *Factory) Composite(label string) *Composite {
	return &Composite{id: f.ids.NextID(), Label: label}
}

func (c *Composite) ID() int {
	return c.id
}

func (c *Composite) Parent() *Composite {
	return c.parent
}

func (c *Composite) IsModified() bool {
	return c.modified
}

func (c *Composite) Bodies() []*Body {
	return c.bodies
}

func (c *Composite) Constraints() []*Constraint {
	return c.constraints
}

func (c *Composite) Composites() []*Composite {
	return c.composites
}

//sets the modified flag, optionally on all ancestors and/or all descendants.
func (c *Composite) SetModified(modified, updateParents, updateChildren bool) {
	c.modified = modified

	if updateParents && c.parent != nil {
		c.parent.SetModified(modified, true, false)
	}

	if updateChildren {
		for _, child := range c.composites {
			child.SetModified(modified, false, true)
		}
	}
}

//adds top level bodies. Parts of a compound body are rejected.
func (c *Composite) AddBody(bodies ...*Body) error {
	for _, body := range bodies {
		if body.parent != nil {
			return ErrCompoundPart
		}
	}
	c.bodies = append(c.bodies, bodies...)
	c.SetModified(true, true, false)
	return nil
}

func (c *Composite) AddConstraint(constraints ...*Constraint) {
	c.constraints = append(c.constraints, constraints...)
	c.SetModified(true, true, false)
}

func (c *Composite) AddComposite(composites ...*Composite) {
	for _, child := range composites {
		child.parent = c
	}
	c.composites = append(c.composites, composites...)
	c.SetModified(true, true, false)
}

//removes body from this composite, and from all descendants when deep is set.
func (c *Composite) RemoveBody(body *Body, deep bool) {
	for i, b := range c.bodies {
		if b == body {
			c.bodies = append(c.bodies[:i], c.bodies[i+1:]...)
			c.SetModified(true, true, false)
			break
		}
	}

	if deep {
		for _, child := range c.composites {
			child.RemoveBody(body, true)
		}
	}
}

func (c *Composite) RemoveConstraint(constraint *Constraint, deep bool) {
	for i, cs := range c.constraints {
		if cs == constraint {
			c.constraints = append(c.constraints[:i], c.constraints[i+1:]...)
			c.SetModified(true, true, false)
			break
		}
	}

	if deep {
		for _, child := range c.composites {
			child.RemoveConstraint(constraint, true)
		}
	}
}

func (c *Composite) RemoveComposite(composite *Composite, deep bool) {
	for i, cs := range c.composites {
		if cs == composite {
			c.composites = append(c.composites[:i], c.composites[i+1:]...)
			composite.parent = nil
			c.SetModified(true, true, false)
			break
		}
	}

	if deep {
		for _, child := range c.composites {
			child.RemoveComposite(composite, true)
		}
	}
}

//removes everything, keeping static bodies when keepStatic is set.
func (c *Composite) Clear(keepStatic, deep bool) {
	if deep {
		for _, child := range c.composites {
			child.Clear(keepStatic, true)
		}
	}

	if keepStatic {
		kept := c.bodies[:0]
		for _, body := range c.bodies {
			if body.isStatic {
				kept = append(kept, body)
			}
		}
		c.bodies = kept
	} else {
		c.bodies = c.bodies[:0]
	}

	c.constraints = c.constraints[:0]
	c.composites = c.composites[:0]
	c.SetModified(true, true, false)
}

//all bodies of this composite and its descendants, depth first.
func (c *Composite) AllBodies() []*Body {
	bodies := append([]*Body(nil), c.bodies...)
	for _, child := range c.composites {
		bodies = append(bodies, child.AllBodies()...)
	}
	return bodies
}

func (c *Composite) AllConstraints() []*Constraint {
	constraints := append([]*Constraint(nil), c.constraints...)
	for _, child := range c.composites {
		constraints = append(constraints, child.AllConstraints()...)
	}
	return constraints
}

func (c *Composite) AllComposites() []*Composite {
	composites := append([]*Composite(nil), c.composites...)
	for _, child := range c.composites {
		composites = append(composites, child.AllComposites()...)
	}
	return composites
}

func (c *Composite) GetBody(id int) *Body {
	for _, body := range c.AllBodies() {
		if body.id == id {
			return body
		}
	}
	return nil
}

func (c *Composite) GetConstraint(id int) *Constraint {
	for _, constraint := range c.AllConstraints() {
		if constraint.id == id {
			return constraint
		}
	}
	return nil
}

func (c *Composite) GetComposite(id int) *Composite {
	if c.id == id {
		return c
	}
	for _, composite := range c.AllComposites() {
		if composite.id == id {
			return composite
		}
	}
	return nil
}

//moves bodies, constraints and composites from c into dst.
func (c *Composite) Move(dst *Composite, bodies []*Body, constraints []*Constraint, composites []*Composite) error {
	for _, body := range bodies {
		c.RemoveBody(body, false)
	}
	for _, constraint := range constraints {
		c.RemoveConstraint(constraint, false)
	}
	for _, composite := range composites {
		c.RemoveComposite(composite, false)
	}

	if err := dst.AddBody(bodies...); err != nil {
		return err
	}
	dst.AddConstraint(constraints...)
	dst.AddComposite(composites...)
	return nil
}

//assigns fresh ids to everything in the tree.
func (c *Composite) Rebase(ids *IDAllocator) {
	for _, body := range c.AllBodies() {
		body.rebase(ids)
	}
	for _, constraint := range c.AllConstraints() {
		constraint.id = ids.NextID()
	}
	for _, composite := range c.AllComposites() {
		composite.id = ids.NextID()
	}
	c.id = ids.NextID()
	c.SetModified(true, true, false)
}

func (body *Body) rebase(ids *IDAllocator) {
	body.id = ids.NextID()
	for i := range body.vertices {
		body.vertices[i].BodyID = body.id
	}
	for _, part := range body.parts {
		part.id = ids.NextID()
		for i := range part.vertices {
			part.vertices[i].BodyID = part.id
		}
	}
}

func (c *Composite) bodyList(recursive bool) []*Body {
	if recursive {
		return c.AllBodies()
	}
	return c.bodies
}

func (c *Composite) Translate(translation vect.Vect, recursive bool) {
	for _, body := range c.bodyList(recursive) {
		body.Translate(translation)
	}
	c.SetModified(true, true, false)
}

//rotates every body about point.
func (c *Composite) Rotate(rotation vect.Float, point vect.Vect, recursive bool) {
	for _, body := range c.bodyList(recursive) {
		body.RotateAbout(rotation, point)
	}
	c.SetModified(true, true, false)
}

//scales body positions about point and each body about its own position.
func (c *Composite) Scale(scaleX, scaleY vect.Float, point vect.Vect, recursive bool) {
	for _, body := range c.bodyList(recursive) {
		d := vect.Sub(body.position, point)
		body.SetPosition(vect.Vect{X: point.X + d.X*scaleX, Y: point.Y + d.Y*scaleY})
		body.Scale(scaleX, scaleY, body.position)
	}
	c.SetModified(true, true, false)
}

//bounds of all bodies in the tree.
func (c *Composite) Bounds() AABB {
	bounds := AABB{Lower: vect.Vector_Inf, Upper: vect.Neg(vect.Vector_Inf)}
	for _, body := range c.AllBodies() {
		for _, v := range body.vertices {
			bounds = Expand(bounds, v.Vect)
		}
	}
	return bounds
}
