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

// Package modalflag wraps the flag package from the standard library to
// handle program modes. Each mode has its own set of flags and arguments.
//
// Arguments are given once with NewArgs(). Each call to Parse() then
// processes the flags of the current mode and, if sub-modes have been added,
// looks for a mode selector in the first argument after the flags. The first
// sub-mode added is the default and is selected if no selector is present:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "PREVIEW", "FONTS", "VERSION")
//
//	switch p, err := md.Parse(); p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		fps := md.AddInt("fps", 60, "frames per second")
//		...
//	}
//
// Mode names are compared without regard to case. The path of modes selected
// so far is returned by Path(), for example "RUN" or "PREVIEW".
//
// Help is printed to Output when -help or -h is given, along with the list of
// sub-modes and any additional help text set with AdditionalHelp().
package modalflag
