package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"log"
	"os"
	"path"
	"strings"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("busgen: ")
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: busgen file.go...")
		os.Exit(2)
	}
	set := token.NewFileSet()
	for _, name := range os.Args[1:] {
		f, err := parser.ParseFile(set, name, nil, parser.ParseComments)
		if err != nil {
			log.Fatal(err)
		}
		file := parseFile(f).filter()
		if err := file.validate(); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		ext := path.Ext(name)
		out := strings.TrimSuffix(name, ext) + ".g" + ext
		if err := render(file, out); err != nil {
			log.Fatal(err)
		}
	}
}

func render(file File, name string) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	defer out.Close()
	return generateFile(file).Render(out)
}
