package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
)

func valueGroupFromField(field *ast.Field) ValueGroup {
	var vg ValueGroup
	vg.Type = types.ExprString(field.Type)
	for _, name := range field.Names {
		vg.Names = append(vg.Names, name.Name)
	}
	return vg
}

func comments(group *ast.CommentGroup) []string {
	if group == nil {
		return nil
	}
	var list []string
	for _, comment := range group.List {
		list = append(list, comment.Text)
	}
	return list
}

func parseInterfaceMethod(field *ast.Field) (Function, bool) {
	var f Function
	if len(field.Names) == 0 {
		return f, false
	}
	funcType, ok := field.Type.(*ast.FuncType)
	if !ok {
		return f, false
	}
	f.Name = field.Names[0].Name
	f.Comments = comments(field.Doc)
	f.Params, f.Results = parseFuncType(funcType)
	return f, true
}

func parseGenDecl(d *ast.GenDecl) []Interface {
	if d.Tok != token.TYPE {
		return nil
	}
	var is []Interface
	for _, spec := range d.Specs {
		typeSpec := spec.(*ast.TypeSpec)
		interfaceType, ok := typeSpec.Type.(*ast.InterfaceType)
		if !ok {
			continue
		}
		var decl Decl
		decl.Name = typeSpec.Name.Name
		decl.Comments = comments(typeSpec.Doc)
		if len(d.Specs) == 1 {
			decl.Comments = append(comments(d.Doc), decl.Comments...)
		}
		var methods []Function
		if ims := interfaceType.Methods; ims != nil {
			for _, m := range ims.List {
				if method, ok := parseInterfaceMethod(m); ok {
					methods = append(methods, method)
				}
			}
		}
		is = append(is, Interface{
			Decl:    decl,
			Methods: methods,
		})
	}
	return is
}

func parseFile(f *ast.File) File {
	var file File
	file.Name = f.Name.Name
	for _, decl := range f.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok {
			file.Interfaces = append(file.Interfaces, parseGenDecl(gd)...)
		}
	}
	return file
}

func parseFuncType(f *ast.FuncType) ([]ValueGroup, []ValueGroup) {
	var params, results []ValueGroup
	for _, param := range f.Params.List {
		params = append(params, valueGroupFromField(param))
	}
	if f.Results != nil {
		for _, result := range f.Results.List {
			results = append(results, valueGroupFromField(result))
		}
	}
	return params, results
}

func (d Decl) isIgnored() bool {
	return find("//bus:ignore", d.Comments) > -1
}

func (d Decl) isService() bool {
	return find("//bus:service", d.Comments) > -1
}

// actions returns the action tags of a method, primary first. Without a
// //bus:action directive the tag is the lowercased method name.
func (f Function) actions() []string {
	args, ok := directiveArgs("action", f.Comments)
	if !ok || len(args) == 0 {
		return []string{strings.ToLower(f.Name)}
	}
	return args
}

func (f Function) resultType() string {
	return f.Results[0].Type
}

// params flattens the parameter groups, naming unnamed parameters.
func (f Function) params() []param {
	nsNames := newNameSelector()
	nsFields := newNameSelector()
	for _, vg := range f.Params {
		for _, name := range vg.Names {
			nsNames.Add(name)
		}
	}
	var ps []param
	for _, vg := range f.Params {
		names := vg.Names
		if len(names) == 0 {
			names = []string{nsNames.New("p")}
		}
		for _, name := range names {
			ps = append(ps, param{
				Name:  name,
				Field: nsFields.New(toTitle.String(name)),
				Type:  vg.Type,
			})
		}
	}
	return ps
}

func countValues(groups []ValueGroup) int {
	n := 0
	for _, vg := range groups {
		if len(vg.Names) == 0 {
			n++
		} else {
			n += len(vg.Names)
		}
	}
	return n
}

func (f Function) validate() error {
	if countValues(f.Results) != 2 || f.Results[len(f.Results)-1].Type != "error" {
		return fmt.Errorf("method %s must return (T, error)", f.Name)
	}
	if n := len(f.Params); n > 0 && strings.HasPrefix(f.Params[n-1].Type, "...") {
		return fmt.Errorf("method %s: variadic parameters are not supported", f.Name)
	}
	return nil
}

func (f File) filter() File {
	var is []Interface
	for _, i := range f.Interfaces {
		if i.isService() && !i.isIgnored() {
			var ms []Function
			for _, m := range i.Methods {
				if !m.isIgnored() {
					ms = append(ms, m)
				}
			}
			i.Methods = ms
			is = append(is, i)
		}
	}
	return File{
		Package:    f.Package,
		Interfaces: is,
	}
}

func (f File) validate() error {
	for _, i := range f.Interfaces {
		seen := make(map[string]string)
		for _, m := range i.Methods {
			if err := m.validate(); err != nil {
				return fmt.Errorf("%s: %w", i.Name, err)
			}
			for _, action := range m.actions() {
				if other, ok := seen[action]; ok {
					return fmt.Errorf("%s: action %q used by %s and %s", i.Name, action, other, m.Name)
				}
				seen[action] = m.Name
			}
		}
	}
	return nil
}
