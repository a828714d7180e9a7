package format

// Align4 returns n aligned up to the next DWORD boundary. Every RES header,
// payload and the identifiers inside a header end on such a boundary.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + DWORDAlignmentMask) & ^DWORDAlignmentMask
}
