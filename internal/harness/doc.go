// Package harness runs check register scenarios.
//
// A scenario is a YAML file naming a start time, a list of steps (automatic
// or manual check operations, optionally preceded by a clock advance) and a
// list of assertions on the final register. Each scenario runs against a
// fresh in-memory store with a manual clock, so the produced trace is
// deterministic and can be compared against a golden file.
//
// Example scenario:
//
//	name: workday
//	description: a morning and an afternoon shift
//	start: "2022-04-21T09:00:00Z"
//	steps:
//	  - check: auto
//	    expect: {outcome: accepted, state: checked-in}
//	  - advance: 3h
//	    check: auto
//	assertions:
//	  - type: final_state
//	    state: checked-out
package harness
