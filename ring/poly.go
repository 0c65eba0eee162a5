package ring

// Poly is an element of R_q in the normal domain.
//
// Coefficients are not always fully reduced; Normalize brings them
// into [0, q).
type Poly [N]int16

// NTTPoly is an element of R_q in the NTT domain.
type NTTPoly [N]int16

// Add sets p = a + b without reduction.
func (p *Poly) Add(a, b *Poly) {
	for i := range p {
		p[i] = a[i] + b[i]
	}
}

// Sub sets p = a - b without reduction.
func (p *Poly) Sub(a, b *Poly) {
	for i := range p {
		p[i] = a[i] - b[i]
	}
}

// Reduce Barrett-reduces every coefficient to its centered representative.
func (p *Poly) Reduce() {
	for i := range p {
		p[i] = barrettReduce(p[i])
	}
}

// Normalize maps every coefficient into [0, q).
func (p *Poly) Normalize() {
	for i := range p {
		p[i] = canonical(p[i])
	}
}

// Zero overwrites all coefficients.
func (p *Poly) Zero() {
	for i := range p {
		p[i] = 0
	}
}

// Add sets p = a + b without reduction.
func (p *NTTPoly) Add(a, b *NTTPoly) {
	for i := range p {
		p[i] = a[i] + b[i]
	}
}

// Reduce Barrett-reduces every coefficient to its centered representative.
func (p *NTTPoly) Reduce() {
	for i := range p {
		p[i] = barrettReduce(p[i])
	}
}

// Normalize maps every coefficient into [0, q).
func (p *NTTPoly) Normalize() {
	for i := range p {
		p[i] = canonical(p[i])
	}
}

// ToMont multiplies every coefficient by the Montgomery factor 2^16.
func (p *NTTPoly) ToMont() {
	for i := range p {
		p[i] = toMont(p[i])
	}
}

// Zero overwrites all coefficients.
func (p *NTTPoly) Zero() {
	for i := range p {
		p[i] = 0
	}
}

// Mul returns a·b in R_q with coefficients in [0, q). The product is
// computed as InvNTT(NTT(a) ∘ NTT(b)).
func Mul(a, b *Poly) Poly {
	x, y := *a, *b
	x.Normalize()
	y.Normalize()
	xh, yh := x.NTT(), y.NTT()
	var h NTTPoly
	h.BaseMul(&xh, &yh)
	r := h.InvNTTToMont()
	r.Normalize()
	return r
}
