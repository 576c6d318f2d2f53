// This file is part of Subwaysign.
//
// Subwaysign is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Subwaysign is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Subwaysign.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with Errorf(), which takes a pattern and the
// placeholder values for that pattern, but formatting is deferred until the
// Error() function is called.
//
// The pattern is the identity of the error. Is() checks whether an error was
// created with a specific pattern and Has() checks whether that pattern
// occurs anywhere in the error chain:
//
//	e := curated.Errorf(glyphs.LoadError, "icon ROUTE_1_CIRCLE: wrong height")
//	f := curated.Errorf("startup: %v", e)
//
//	curated.Is(f, glyphs.LoadError)  // false
//	curated.Has(f, glyphs.LoadError) // true
//
// Errors that are not curated but which are used as placeholder values are
// reachable with the standard library errors.Is() and errors.As() functions
// because curated errors implement Unwrap().
//
// The Error() string is normalised so that adjacent duplicate parts in the
// chain are removed. This means packages can wrap errors with their own
// prefix without worrying whether the callee has already done so:
//
//	signconfig: signconfig: brightness must be 0.0-1.0
//
// becomes
//
//	signconfig: brightness must be 0.0-1.0
package curated
