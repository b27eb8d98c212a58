package main

var busPath = "github.com/orangootan/busproxy/pkg/bus"

type File struct {
	Package
	Interfaces []Interface
}

type Decl struct {
	Comments []string
	Name     string
}

type Package struct {
	Decl
}

type Interface struct {
	Decl
	Methods []Function
}

type Function struct {
	Decl
	Params  []ValueGroup
	Results []ValueGroup
}

type ValueGroup struct {
	Names []string
	Type  string
}

// param is one flattened parameter: its Go name, the exported field that
// carries it in the action struct and its type.
type param struct {
	Name  string
	Field string
	Type  string
}
