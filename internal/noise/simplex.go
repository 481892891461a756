package noise

import "math/rand"

// Source is a 4D coherent noise field. Implementations must be
// deterministic and return finite values for finite input.
type Source interface {
	Eval4(x, y, z, w float64) float64
}

// Simplex skewing factors for four dimensions.
const (
	f4 = 0.30901699437494745 // (sqrt(5)-1)/4
	g4 = 0.1381966011250105  // (5-sqrt(5))/20
)

// reference is Ken Perlin's permutation of 0..255.
var reference = [256]uint8{
	151, 160, 137, 91, 90, 15,
	131, 13, 201, 95, 96, 53, 194, 233, 7, 225, 140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23,
	190, 6, 148, 247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32, 57, 177, 33,
	88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175, 74, 165, 71, 134, 139, 48, 27, 166,
	77, 146, 158, 231, 83, 111, 229, 122, 60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244,
	102, 143, 54, 65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169, 200, 196,
	135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64, 52, 217, 226, 250, 124, 123,
	5, 202, 38, 147, 118, 126, 255, 82, 85, 212, 207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42,
	223, 183, 170, 213, 119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104, 218, 246, 97, 228,
	251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241, 81, 51, 145, 235, 249, 14, 239, 107,
	49, 192, 214, 31, 181, 199, 106, 157, 184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254,
	138, 236, 205, 93, 222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// grad4 holds the 32 edge midpoints of a tesseract.
var grad4 = [32][4]float64{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

// Simplex is 4D simplex noise over a fixed permutation table. The field
// repeats every 256 units along each axis. It is safe for concurrent use.
type Simplex struct {
	perm [512]uint8
}

// Default is the reference field shared by the renderer.
var Default = NewSimplex()

// NewSimplex returns the field built on Perlin's reference permutation.
func NewSimplex() *Simplex {
	s := &Simplex{}
	for i := range s.perm {
		s.perm[i] = reference[i&255]
	}
	return s
}

// NewSeeded returns a field whose permutation is shuffled from seed.
// The same seed always yields the same field.
func NewSeeded(seed int64) *Simplex {
	r := rand.New(rand.NewSource(seed))
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := r.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	s := &Simplex{}
	for i := range s.perm {
		s.perm[i] = p[i&255]
	}
	return s
}

func fastFloor(x float64) int {
	i := int(x)
	if x < float64(i) {
		return i - 1
	}
	return i
}

func corner(g int, x, y, z, w float64) float64 {
	t := 0.6 - x*x - y*y - z*z - w*w
	if t <= 0 {
		return 0
	}
	t *= t
	d := grad4[g]
	return t * t * (d[0]*x + d[1]*y + d[2]*z + d[3]*w)
}

// Eval4 returns the noise value at (x, y, z, w), roughly in [-1, 1].
func (s *Simplex) Eval4(x, y, z, w float64) float64 {
	t := (x + y + z + w) * f4
	i := fastFloor(x + t)
	j := fastFloor(y + t)
	k := fastFloor(z + t)
	l := fastFloor(w + t)

	u := float64(i+j+k+l) * g4
	x0 := x - (float64(i) - u)
	y0 := y - (float64(j) - u)
	z0 := z - (float64(k) - u)
	w0 := w - (float64(l) - u)

	// Rank each coordinate to find which of the 24 simplices contains the point.
	var rx, ry, rz, rw int
	if x0 > y0 {
		rx++
	} else {
		ry++
	}
	if x0 > z0 {
		rx++
	} else {
		rz++
	}
	if x0 > w0 {
		rx++
	} else {
		rw++
	}
	if y0 > z0 {
		ry++
	} else {
		rz++
	}
	if y0 > w0 {
		ry++
	} else {
		rw++
	}
	if z0 > w0 {
		rz++
	} else {
		rw++
	}

	i1, j1, k1, l1 := step(rx, 3), step(ry, 3), step(rz, 3), step(rw, 3)
	i2, j2, k2, l2 := step(rx, 2), step(ry, 2), step(rz, 2), step(rw, 2)
	i3, j3, k3, l3 := step(rx, 1), step(ry, 1), step(rz, 1), step(rw, 1)

	ii, jj, kk, ll := i&255, j&255, k&255, l&255
	p := &s.perm
	hash := func(di, dj, dk, dl int) int {
		return int(p[ii+di+int(p[jj+dj+int(p[kk+dk+int(p[ll+dl])])])]) & 31
	}

	n := corner(hash(0, 0, 0, 0), x0, y0, z0, w0)
	n += corner(hash(i1, j1, k1, l1),
		x0-float64(i1)+g4, y0-float64(j1)+g4, z0-float64(k1)+g4, w0-float64(l1)+g4)
	n += corner(hash(i2, j2, k2, l2),
		x0-float64(i2)+2*g4, y0-float64(j2)+2*g4, z0-float64(k2)+2*g4, w0-float64(l2)+2*g4)
	n += corner(hash(i3, j3, k3, l3),
		x0-float64(i3)+3*g4, y0-float64(j3)+3*g4, z0-float64(k3)+3*g4, w0-float64(l3)+3*g4)
	n += corner(hash(1, 1, 1, 1),
		x0-1+4*g4, y0-1+4*g4, z0-1+4*g4, w0-1+4*g4)

	return 27 * n
}

func step(rank, min int) int {
	if rank >= min {
		return 1
	}
	return 0
}
