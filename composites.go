package purgatory

import (
	"github.com/pkg/errors"
	"github.com/sgentle/polygon-purgatory/vect"
)

//builds one cell of a stack. Returning a nil body leaves the cell empty.
type StackFunc func(x, y vect.Float, column, row int, last *Body, i int) (*Body, error)

//lays out bodies made by fn in a grid of columns x rows starting at (x, y).
//Each body is shifted so its bounds start at the cell's corner.
func (f *Factory) Stack(x, y vect.Float, columns, rows int, columnGap, rowGap vect.Float, fn StackFunc) (*Composite, error) {
	stack := f.Composite("Stack")
	cx, cy := x, y
	var last *Body
	i := 0

	for row := 0; row < rows; row++ {
		maxHeight := vect.Float(0)

		for column := 0; column < columns; column++ {
			body, err := fn(cx, cy, column, row, last, i)
			if err != nil {
				return nil, errors.Wrapf(err, "stack cell %d,%d", column, row)
			}
			if body == nil {
				cx += columnGap
				continue
			}

			size := vect.Sub(body.bounds.Upper, body.bounds.Lower)
			maxHeight = vect.FMax(maxHeight, size.Y)
			body.Translate(vect.Mult(size, 0.5))
			cx = body.bounds.Upper.X + columnGap

			if err := stack.AddBody(body); err != nil {
				return nil, err
			}
			last = body
			i++
		}

		cy += maxHeight + rowGap
		cx = x
	}

	return stack, nil
}

//links consecutive bodies of c. Anchor offsets are fractions of each body's bounds size.
func (f *Factory) Chain(c *Composite, xOffsetA, yOffsetA, xOffsetB, yOffsetB vect.Float, opts ...ConstraintOption) error {
	bodies := c.bodies
	for i := 1; i < len(bodies); i++ {
		bodyA, bodyB := bodies[i-1], bodies[i]
		sizeA := vect.Sub(bodyA.bounds.Upper, bodyA.bounds.Lower)
		sizeB := vect.Sub(bodyB.bounds.Upper, bodyB.bounds.Lower)

		constraintOpts := append([]ConstraintOption{
			WithPointA(vect.Vect{X: sizeA.X * xOffsetA, Y: sizeA.Y * yOffsetA}),
			WithPointB(vect.Vect{X: sizeB.X * xOffsetB, Y: sizeB.Y * yOffsetB}),
		}, opts...)

		constraint, err := f.Constraint(bodyA, bodyB, constraintOpts...)
		if err != nil {
			return err
		}
		c.AddConstraint(constraint)
	}
	c.Label += " Chain"
	return nil
}

//links the bodies of a columns x rows grid to their neighbours, and
//diagonally when crossBrace is set.
func (f *Factory) Mesh(c *Composite, columns, rows int, crossBrace bool, opts ...ConstraintOption) error {
	bodies := c.bodies
	if len(bodies) < columns*rows {
		return errors.Errorf("mesh of %dx%d needs %d bodies, composite has %d", columns, rows, columns*rows, len(bodies))
	}

	link := func(bodyA, bodyB *Body) error {
		constraint, err := f.Constraint(bodyA, bodyB, opts...)
		if err != nil {
			return err
		}
		c.AddConstraint(constraint)
		return nil
	}

	for row := 0; row < rows; row++ {
		for col := 1; col < columns; col++ {
			if err := link(bodies[col-1+row*columns], bodies[col+row*columns]); err != nil {
				return err
			}
		}

		if row == 0 {
			continue
		}

		for col := 0; col < columns; col++ {
			bodyB := bodies[col+row*columns]
			if err := link(bodies[col+(row-1)*columns], bodyB); err != nil {
				return err
			}
			if crossBrace && col > 0 {
				if err := link(bodies[col-1+(row-1)*columns], bodyB); err != nil {
					return err
				}
			}
			if crossBrace && col < columns-1 {
				if err := link(bodies[col+1+(row-1)*columns], bodyB); err != nil {
					return err
				}
			}
		}
	}

	c.Label += " Mesh"
	return nil
}

//a stack trimmed to a triangle, the widest row at the bottom.
func (f *Factory) Pyramid(x, y vect.Float, columns, rows int, columnGap, rowGap vect.Float, fn StackFunc) (*Composite, error) {
	actualRows := rows
	if half := (columns + 1) / 2; half < actualRows {
		actualRows = half
	}

	return f.Stack(x, y, columns, rows, columnGap, rowGap, func(cx, cy vect.Float, column, row int, last *Body, i int) (*Body, error) {
		if row > actualRows {
			return nil, nil
		}
		row = actualRows - row
		if column < row || column > columns-1-row {
			return nil, nil
		}

		lastWidth := vect.Float(0)
		if last != nil {
			lastWidth = last.bounds.Upper.X - last.bounds.Lower.X
		}

		if i == 1 {
			shift := vect.Float(column - 1)
			if columns%2 == 1 {
				shift = vect.Float(column + 1)
			}
			last.Translate(vect.Vect{X: shift * lastWidth})
		}

		xOffset := vect.Float(0)
		if last != nil {
			xOffset = vect.Float(column) * lastWidth
		}
		return fn(x+xOffset+vect.Float(column)*columnGap, cy, column, row, last, i)
	})
}

//a row of pendulum balls hanging length below y. The balls do not rotate
//and bounce without loss.
func (f *Factory) NewtonsCradle(x, y vect.Float, number int, size, length vect.Float) (*Composite, error) {
	cradle := f.Composite("Newtons Cradle")
	const separation = 1.9

	for i := 0; i < number; i++ {
		cx := x + vect.Float(i)*size*separation
		circle, err := f.Circle(cx, y+length, size, 0,
			WithInertia(Inf),
			WithRestitution(1),
			WithFriction(0),
			WithFrictionAir(0.0001),
			WithSlop(1),
		)
		if err != nil {
			return nil, err
		}

		constraint, err := f.Constraint(nil, circle, WithPointA(vect.Vect{X: cx, Y: y}))
		if err != nil {
			return nil, err
		}

		if err := cradle.AddBody(circle); err != nil {
			return nil, err
		}
		cradle.AddConstraint(constraint)
	}

	return cradle, nil
}

//a chamfered box on two wheels pinned at its ends. The three bodies share
//a non colliding group.
func (f *Factory) Car(x, y, width, height, wheelSize vect.Float) (*Composite, error) {
	const wheelBase = 20
	filter := DefaultFilter()
	filter.Group = f.ids.NextGroup(true)

	wheelAOffset := -width*0.5 + wheelBase
	wheelBOffset := width*0.5 - wheelBase

	body, err := f.Rectangle(x, y, width, height,
		WithFilter(filter),
		WithChamfer(height*0.5),
		WithDensity(0.0002),
	)
	if err != nil {
		return nil, err
	}

	car := f.Composite("Car")
	if err := car.AddBody(body); err != nil {
		return nil, err
	}

	for _, offset := range []vect.Float{wheelAOffset, wheelBOffset} {
		wheel, err := f.Circle(x+offset, y, wheelSize, 0, WithFilter(filter), WithFriction(0.8))
		if err != nil {
			return nil, err
		}
		axel, err := f.Constraint(wheel, body,
			WithPointB(vect.Vect{X: offset}),
			WithStiffness(1),
			WithLength(0),
		)
		if err != nil {
			return nil, err
		}
		if err := car.AddBody(wheel); err != nil {
			return nil, err
		}
		car.AddConstraint(axel)
	}

	return car, nil
}

//a grid of non rotating circles held together by soft constraints.
func (f *Factory) SoftBody(x, y vect.Float, columns, rows int, columnGap, rowGap vect.Float, crossBrace bool,
	particleRadius vect.Float, particleOpts []BodyOption, constraintOpts []ConstraintOption) (*Composite, error) {

	particleOpts = append([]BodyOption{WithInertia(Inf)}, particleOpts...)
	constraintOpts = append([]ConstraintOption{WithStiffness(0.2)}, constraintOpts...)

	soft, err := f.Stack(x, y, columns, rows, columnGap, rowGap, func(cx, cy vect.Float, _, _ int, _ *Body, _ int) (*Body, error) {
		return f.Circle(cx, cy, particleRadius, 0, particleOpts...)
	})
	if err != nil {
		return nil, err
	}

	if err := f.Mesh(soft, columns, rows, crossBrace, constraintOpts...); err != nil {
		return nil, err
	}
	soft.Label = "Soft Body"
	return soft, nil
}
