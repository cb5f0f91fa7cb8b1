// Package lua runs user scripts that extend the Ex command set.
//
// Scripts run in a sandboxed gopher-lua state: no io, os or debug
// libraries, no dofile/load, and require only resolves the safe built-in
// modules and the editor module "vi". Every execution is bounded by a
// timeout.
//
// The vi module:
//
//	vi.command(abbrev, name, fn [, flags])  -- register an Ex command
//	vi.execute(line)                        -- run an Ex command line
//	vi.message(value)                       -- show a message
//	vi.cursor()                             -- cursor line
//	vi.linecount()                          -- number of lines
//	vi.line(n)                              -- text of line n
//	vi.setline(n, text)                     -- replace line n
//
// A command function receives an event table with the fields name, line1,
// line2, range (address count), bang, arg and args. If it returns a string,
// that string is shown as a message.
//
//	vi.command("Up", "Upper", function(ev)
//	  for n = ev.line1, ev.line2 do
//	    vi.setline(n, string.upper(vi.line(n)))
//	  end
//	end, "RANGE")
package lua
