// Package preprocess normalizes log message bodies before they are compared.
//
// Volatile substrings are replaced, in this order:
//
//  1. Hex literals (0x1f)                 → <hex>
//  2. MAC/Bluetooth addresses             → <mac>
//  3. Uppercase UUIDs                     → <uuid>
//  4. Verbose embedded timestamps         → <date>
//  5. Object hash codes (@ce7ed73)        → <hash>
//  6. Phone numbers (+336..., %2B336...)  → <phonenumber>
//
// Basic usage:
//
//	r := preprocess.NewRedactor(nil)
//	clean := r.Redact(content)
//
// Configuration via ~/.logsmart.yaml:
//
//	redaction:
//	  patterns:
//	    - hex
//	    - mac
//	    - uuid
package preprocess
