// Package detect locates a 9x9 grid in a Hough accumulator and produces
// the 16 control points used to extract the grid from the camera frame.
//
// Detection works on accumulator peaks: the strongest cells become
// candidate lines, near-identical lines collapse into clusters, clusters
// split into two orientation families (grid rows and grid columns), and
// four evenly spaced lines per family intersect into a 4x4 control-point
// mesh. The finder keeps its intermediate collections around after every
// call so the overlay composer can visualize them.
package detect
