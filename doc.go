// FILE: lixenwraith/decouple/doc.go

// Package decouple resolves environment variables into typed values and structs.
//
// Features:
//   - Generic scalar and list resolution with optional pre-typed defaults
//   - Typed errors distinguishing a missing variable from an unparseable one
//   - Parsing through Unmarshaler, encoding.TextUnmarshaler, durations, URLs,
//     CIDRs and all basic kinds
//   - Struct binding by reflection (field CountMax reads COUNTMAX) or with an
//     explicit list of bindings
//   - Injectable environment (Lookuper) for deterministic tests
//   - Builder with prefixes, struct defaults, validation and debug logging
//
// Quick Start:
//
//	port, err := decouple.Get("PORT", decouple.ValueOf(8080))
//	hosts, err := decouple.GetList[string]("HOSTS", decouple.None[[]string]())
//
//	type Config struct {
//	    CountMax uint8
//	    Hosts    []string
//	}
//
//	var cfg Config
//	if err := decouple.Bind(decouple.OSEnv{}, &cfg); err != nil {
//	    var missing *decouple.MissingError
//	    if errors.As(err, &missing) {
//	        log.Fatalf("set %s", missing.Name)
//	    }
//	    log.Fatal(err)
//	}
//
// Resolution Rules:
//  1. Variable absent, default given: the default is returned unparsed
//  2. Variable absent, no default: *MissingError
//  3. Variable present: the value is parsed and the default ignored;
//     a failure is a *ParseError even when a default exists
//
// Lists are split on ListSeparator without trimming or escaping. A list fails
// as a whole when any element fails, and the error carries the unsplit value.
//
// Concurrency:
// Nothing is cached; every call reads the environment again. The process
// environment is shared mutable state and concurrent writers are the
// caller's concern.
package decouple
