// Package genproj generates Libero SoC project scripts from a declarative
// configuration instead of keeping the binary project under version control.
// A generator run
//
//   - searches the configured folders for files of each [genkore.Category],
//   - records every file in a [genkore.Lookup] keyed by basename, warning about
//     duplicates,
//   - rewrites file references in included TCL fragments to the canonical
//     absolute path found during the search and
//   - emits a TCL script that creates or opens the project, links all files,
//     assigns constraint files to tools and saves the project.
//
// Optionally the sources are bundled into an archive and the script is run
// by the Libero executable.
//
// A minimal genproj.json looks like this:
//
//	{
//	  "libero": {
//	    "project": {
//	      "library": "work",
//	      "top": "top",
//	      "search_hdl": {"folder": [{"path": "rtl", "recursive": true}]},
//	      "search_sdc": {"file": ["constr/top.sdc"]},
//	      "enable_constraint": {"SYNTHESIZE": ["constr/top.sdc"]}
//	    }
//	  }
//	}
//
// Relative paths are resolved against the directory of the config file.
package genproj
