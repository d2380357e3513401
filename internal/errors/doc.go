// Package errors provides structured, actionable error messages for the
// flight command.
//
// Each error has a unique code (e.g., "F100") that maps to a category, a
// short message and a detailed explanation. Errors can carry a file
// location, in which case the surrounding lines are shown, and a hint on
// how to fix the problem.
//
// # Error Categories
//
//   - config: flight.json problems
//   - content: post sources (directory, S3)
//   - render: component resolution and HTML output
//   - protocol: wire encoding and decoding
//   - navigation: client navigation
//   - server: listening, upstreams and file watching
//   - cli: command usage
//
// # Usage
//
//	err := errors.New("F101").
//	    WithLocation("flight.json", 4, 12).
//	    WithSuggestion("Remove the trailing comma")
//
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR F101: Invalid config file
//	//
//	//   flight.json:4:12
//	//
//	//        2 │   "address": ":3000",
//	//        3 │   "posts": "posts",
//	//   →    4 │   "author": "Jae",
//	//          │            ^
//	//        5 │ }
//	//
//	//   Hint: Remove the trailing comma
//
// Colors are used only when stderr is a terminal and NO_COLOR is unset.
package errors
