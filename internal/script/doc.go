// Package script runs user-supplied Lua comparators and matchers for
// arrangement rules.
//
// A script defines global functions. Comparators take two entry tables
// and return a number (negative, zero or positive) or a boolean meaning
// "a sorts before b". Matchers take one entry table and return a truthy
// value when the entry matches:
//
//	function byLength(a, b)
//	    return #a.name - #b.name
//	end
//
//	function isTest(e)
//	    return e.name:match("^Test") ~= nil
//	end
//
// Entry tables carry name, language, types, modifiers, start, finish,
// anchor and parent (the parent's name or nil).
//
// Scripts run in a sandbox: only the base, table, string and math
// libraries are available and require is limited to those modules.
// Every call is bounded by a timeout.
package script
