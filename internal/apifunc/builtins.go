package apifunc

import "github.com/roach88/eegraph/internal/ir"

// Type names shared by the wrappers and the builtin catalog.
const (
	TypeDate = "Date"
	TypeList = "List"
)

func arg(name, typ string) ir.ArgSig    { return ir.ArgSig{Name: name, Type: typ} }
func optArg(name, typ string) ir.ArgSig { return ir.ArgSig{Name: name, Type: typ, Optional: true} }
func sig(name, returns string, args ...ir.ArgSig) ir.FunctionSig {
	return ir.FunctionSig{Name: name, Returns: returns, Args: args}
}

// Builtins returns the signatures the default registry is seeded with.
// Catalogs compiled from CUE may add to or replace them.
func Builtins() []ir.FunctionSig {
	return []ir.FunctionSig{
		sig("Date", TypeDate, arg("value", "Object"), optArg("timeZone", "String")),
		sig("Date.advance", TypeDate, arg("date", TypeDate), arg("delta", "Float"), arg("unit", "String"), optArg("timeZone", "String")),
		sig("Date.difference", "Float", arg("date", TypeDate), arg("start", TypeDate), arg("unit", "String")),
		sig("Date.format", "String", arg("date", TypeDate), optArg("format", "String"), optArg("timeZone", "String")),
		sig("Date.fromYMD", TypeDate, arg("year", "Integer"), arg("month", "Integer"), arg("day", "Integer"), optArg("timeZone", "String")),
		sig("Date.get", "Long", arg("date", TypeDate), arg("unit", "String"), optArg("timeZone", "String")),
		sig("Date.millis", "Long", arg("input", TypeDate)),
		sig("Date.update", TypeDate, arg("date", TypeDate),
			optArg("year", "Integer"), optArg("month", "Integer"), optArg("day", "Integer"),
			optArg("hour", "Integer"), optArg("minute", "Integer"), optArg("second", "Number"),
			optArg("timeZone", "String")),

		sig("List.add", TypeList, arg("list", TypeList), arg("element", "Object")),
		sig("List.cat", TypeList, arg("list", TypeList), arg("other", TypeList)),
		sig("List.get", "Object", arg("list", TypeList), arg("index", "Integer")),
		sig("List.repeat", TypeList, arg("value", "Object"), arg("count", "Integer")),
		sig("List.reverse", TypeList, arg("list", TypeList)),
		sig("List.sequence", TypeList, arg("start", "Number"), optArg("end", "Number"), optArg("step", "Number"), optArg("count", "Integer")),
		sig("List.size", "Integer", arg("list", TypeList)),
		sig("List.slice", TypeList, arg("list", TypeList), arg("start", "Integer"), optArg("end", "Integer"), optArg("step", "Integer")),
		sig("List.sort", TypeList, arg("list", TypeList), optArg("keys", TypeList)),
	}
}
