// Package errors provides structured, coded errors for myui.
//
// Every error raised by the runtime, the student backend and the CLI carries
// a short code (e.g. "E001") that maps to a registered template with a
// category, a one-line message and a longer detail. Codes group by range:
//
//   - E001-E019: hooks (invalid context, hook order)
//   - E020-E039: rendering (unsupported descriptor types, unknown roots)
//   - E060-E079: live sessions and the wire protocol
//   - E080-E099: student registry validation and lookups
//   - E120-E139: configuration
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail("UseState called from an event handler").
//	    Wrap(hooks.ErrInvalidHookContext)
//
//	fmt.Println(err.FormatJSON())
//	// {"code":"E001","category":"runtime","message":"Hook called outside a component render",...}
//
// Errors created from a code wrap an underlying sentinel so callers compare
// with the standard library's errors.Is.
package errors
