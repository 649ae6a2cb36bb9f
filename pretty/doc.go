// Package pretty reformats a character stream with a fixed transition table.
//
// Separators (',', ';', newline) and block delimiters ('{', '[', '}', ']')
// break lines and drive an indentation level, runs of blanks collapse to one
// space, and anything between quote characters passes through untouched. Any
// quote character closes a string opened by any other quote character.
//
// A Formatter processes one stream from start to finish:
//
//	f := pretty.New(os.Stdout)
//	if err := f.Run(`fn some(param) { hi }`); err != nil {
//		return err
//	}
package pretty
