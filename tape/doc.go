// Package tape implements a small interpreter for the eight-instruction tape
// language:
//   - `>` and `<` move the pointer one cell right or left.
//   - `+` and `-` increment or decrement the current cell.
//   - `,` reads one line of input as an integer into the current cell.
//   - `.` writes the character whose code point is the current cell.
//   - `[` and `]` repeat the enclosed instructions while the current cell is
//     nonzero.
//
// Every other character is ignored, and a program ends at the first newline.
// Cells are 8-bit unsigned values that wrap on overflow. Moving the pointer off
// either end of the tape fails fast, as do unmatched brackets at compile time.
// The engine enforces a step quota so runaway loops stop with an error.
package tape
