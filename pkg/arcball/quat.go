package arcball

import (
	"github.com/go-gl/mathgl/mgl64"
)

// quatTerms returns the products used by the closed-form conversion, with
// s = 2/|q|² so non-unit quaternions still give a rotation. A zero
// quaternion gets s = 0, which yields the identity.
func quatTerms(q mgl64.Quat) (wx, wy, wz, xx, xy, xz, yy, yz, zz float64) {
	n := q.Dot(q)
	s := 0.0
	if n > 0 {
		s = 2 / n
	}
	x, y, z := q.V[0], q.V[1], q.V[2]
	xs, ys, zs := x*s, y*s, z*s
	wx, wy, wz = q.W*xs, q.W*ys, q.W*zs
	xx, xy, xz = x*xs, x*ys, x*zs
	yy, yz, zz = y*ys, y*zs, z*zs
	return
}

// QuatToMatrix3 returns the rotation matrix of q.
func QuatToMatrix3(q mgl64.Quat) mgl64.Mat3 {
	wx, wy, wz, xx, xy, xz, yy, yz, zz := quatTerms(q)
	return mgl64.Mat3{
		1 - (yy + zz), xy + wz, xz - wy,
		xy - wz, 1 - (xx + zz), yz + wx,
		xz + wy, yz - wx, 1 - (xx + yy),
	}
}

// QuatToMatrix4 returns the homogeneous rotation matrix of q.
func QuatToMatrix4(q mgl64.Quat) mgl64.Mat4 {
	wx, wy, wz, xx, xy, xz, yy, yz, zz := quatTerms(q)
	return mgl64.Mat4{
		1 - (yy + zz), xy + wz, xz - wy, 0,
		xy - wz, 1 - (xx + zz), yz + wx, 0,
		xz + wy, yz - wx, 1 - (xx + yy), 0,
		0, 0, 0, 1,
	}
}
