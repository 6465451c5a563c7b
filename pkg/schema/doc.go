// Package schema provides the small type system used to validate
// manifest parameter declarations: built-in types (string, int,
// float, bool), slices of those, and parsing from the type strings a
// domain description carries.
//
// Typical usage:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "ticket_id": "string",
//	    "retries":   "int",
//	})
//	if err := schema.Validate(s, inputs); err != nil {
//	    // aggregate of every field failure
//	}
package schema
