package main

import (
	j "github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var toTitle = cases.Title(language.English)

func asyncName(i Interface) string {
	return i.Name + "Async"
}

func callName(i Interface) string {
	return lowerFirst(i.Name) + "Call"
}

func methodCallName(i Interface, m Function) string {
	return lowerFirst(i.Name) + m.Name + "Call"
}

func markerName(i Interface) string {
	return "is" + i.Name + "Call"
}

func futureOf(t string) j.Code {
	return j.Op("*").Qual(busPath, "Future").Types(j.Id(t))
}

func signature(m Function) []j.Code {
	return Map(m.params(), func(p param) j.Code {
		return j.Id(p.Name).Id(p.Type)
	})
}

func generateAsyncInterface(i Interface) j.Code {
	return j.Type().Id(asyncName(i)).InterfaceFunc(func(g *j.Group) {
		for _, m := range i.Methods {
			g.Id(m.Name).Params(signature(m)...).Add(futureOf(m.resultType()))
		}
	})
}

func generateProxyMethod(i Interface, m Function) j.Code {
	return j.Func().Params(j.Id("p").Id(i.Name+"Proxy")).Id(m.Name).Params(signature(m)...).Add(futureOf(m.resultType())).BlockFunc(func(g *j.Group) {
		g.Id("params").Op(":=").Id(methodCallName(i, m)).Values(j.DictFunc(func(d j.Dict) {
			for _, p := range m.params() {
				d[j.Id(p.Field)] = j.Id(p.Name)
			}
		}))
		g.Return(j.Qual(busPath, "Call").Types(j.Id(m.resultType())).Call(
			j.Qual(busPath, "Instance").Call(j.Id("p")), j.Lit(m.actions()[0]), j.Id("params")))
	})
}

func generateRegisterProxy(i Interface) j.Code {
	return j.Qual(busPath, "RegisterProxy").Types(j.Id(asyncName(i))).
		Call(j.Func().Params(j.Id("i").Qual(busPath, "Instance")).Any().Block(
			j.Return(j.Id(i.Name + "Proxy").Call(j.Id("i")))))
}

func generateCallTypes(i Interface, f *j.File) {
	f.Type().Id(callName(i)).Interface(j.Id(markerName(i)).Params())
	for _, m := range i.Methods {
		f.Type().Id(methodCallName(i, m)).StructFunc(func(g *j.Group) {
			for _, p := range m.params() {
				g.Id(p.Field).Id(p.Type).Tag(map[string]string{"json": p.Name})
			}
		})
		f.Func().Params(j.Id(methodCallName(i, m))).Id(markerName(i)).Params().Block()
	}
}

func generateDecode(i Interface) j.Code {
	decode := j.Id("decode").Func().Params(j.Id("params").Any()).Error()
	return j.Func().Id("decode"+i.Name+"Call").Params(j.Id("action").String(), decode).
		Params(j.Id(callName(i)), j.Error()).Block(
		j.Switch(j.Id("action")).BlockFunc(func(g *j.Group) {
			for _, m := range i.Methods {
				actions := Map(m.actions(), func(action string) j.Code {
					return j.Lit(action)
				})
				g.Case(actions...).Block(
					j.Var().Id("call").Id(methodCallName(i, m)),
					j.If(j.Err().Op(":=").Id("decode").Call(j.Op("&").Id("call")), j.Err().Op("!=").Nil()).Block(
						j.Return(j.Nil(), j.Err())),
					j.Return(j.Id("call"), j.Nil()),
				)
			}
			g.Default().Block(j.Return(j.Nil(), j.Qual(busPath, "ErrUnknownAction")))
		}),
	)
}

func generateHandler(i Interface) j.Code {
	decode := j.Id("decode").Func().Params(j.Id("params").Any()).Error()
	return j.Func().Id(i.Name+"Handler").Params(j.Id("impl").Id(i.Name)).Qual(busPath, "ActionHandler").Block(
		j.Return(j.Func().Params(j.Id("action").String(), decode).Params(j.Any(), j.Error()).Block(
			j.List(j.Id("call"), j.Err()).Op(":=").Id("decode"+i.Name+"Call").Call(j.Id("action"), j.Id("decode")),
			j.If(j.Err().Op("!=").Nil()).Block(j.Return(j.Nil(), j.Err())),
			j.Switch(j.Id("call").Op(":=").Id("call").Assert(j.Type())).BlockFunc(func(g *j.Group) {
				for _, m := range i.Methods {
					args := Map(m.params(), func(p param) j.Code {
						return j.Id("call").Dot(p.Field)
					})
					g.Case(j.Id(methodCallName(i, m))).Block(
						j.Return(j.Id("impl").Dot(m.Name).Call(args...)))
				}
				g.Default().Block(j.Return(j.Nil(), j.Qual(busPath, "ErrUnknownAction")))
			}),
		)),
	)
}

func generateFile(s File) *j.File {
	f := j.NewFile(s.Package.Name)
	f.HeaderComment("Code generated by busgen. DO NOT EDIT.")
	f.ImportName(busPath, "bus")
	for _, i := range s.Interfaces {
		f.Add(generateAsyncInterface(i))
		f.Type().Id(i.Name+"Proxy").Qual(busPath, "Instance")
	}
	if len(s.Interfaces) != 0 {
		f.Func().Id("init").Params().BlockFunc(func(g *j.Group) {
			for _, i := range s.Interfaces {
				g.Add(generateRegisterProxy(i))
			}
		})
	}
	for _, i := range s.Interfaces {
		for _, m := range i.Methods {
			f.Add(generateProxyMethod(i, m))
		}
		generateCallTypes(i, f)
		f.Add(generateDecode(i))
		f.Add(generateHandler(i))
	}
	return f
}
