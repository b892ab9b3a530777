// Package parametrizer compiles compact text describing a function of one
// variable t into a tree of terms that can be evaluated many times.
//
// The notation is ordinary arithmetic with a few additions. "13 - 2t" is not
// valid, but "13 - 2*t" is; multiplication is always explicit. "6/t/2" is an
// error because chained division is ambiguous. "rd(t < 2*t)" is a uniformly
// random value between its bounds, drawn again on every evaluation, while
// "rc(4 < 8)" is drawn once when compiling. "p 2>0 | 4>2 | 8>6" is piecewise:
// 2 until t reaches 2, then 4 until t reaches 6, then 8. "p[10] ..." loops
// with a period of 10.
//
// Expressions are generic over their numeric type through Kind. RealKind
// serves the built-in signed integer and float types, and BigFloat serves
// *big.Float at any precision.
package parametrizer
