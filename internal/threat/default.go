package threat

// DefaultPatterns are the built-in dangerous constructs. Each names a way
// for replacement output to execute code, reach the process/OS, or
// introspect runtime internals. Matching is case-sensitive: lowering the
// input would start flagging identifiers like Dir( or Open( that are benign
// in the target language.
var DefaultPatterns = Patterns{
	Constructs: []string{
		"eval(", "eval (",
		"exec(", "exec (",
		"compile(", "compile (",
		"getattr(__builtins__", "getattr(__builtins__,",
		"globals(", "globals (",
		"locals(", "locals (",
		"vars(", "vars (",
		"dir(", "dir (",
		"os.system(", "os.system (",
		"subprocess.",
		"__import__",
		"open(", "open (",
		"input(", "raw_input(",
	},
}
