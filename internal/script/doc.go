// Package script loads reducers written in Lua.
//
// A script defines a global function that receives the current state and
// the action as tables and returns the next state:
//
//	function reduce(state, action)
//	    if action.kind == "reverse_text" then
//	        state.text = string.reverse(state.text)
//	    end
//	    return state
//	end
//
// Returning nil keeps the current state. Scripts run in a sandbox with only
// the base, table, string and math libraries opened, and every call is
// bounded by a timeout.
package script
