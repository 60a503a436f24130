package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// GoExtractor extracts struct-based models from Go source. A struct counts
// as a model when it embeds a type whose name ends in "Model" (gorm.Model
// and friends) or when it declares a TableName method returning a string
// literal, which also supplies the model's table_name meta entry.
type GoExtractor struct{}

// Matches reports whether path follows the models.go naming convention.
func (GoExtractor) Matches(path string) bool {
	return strings.HasSuffix(path, "models.go")
}

// Extract parses content and returns every struct that qualifies as a model.
func (GoExtractor) Extract(path, content string) ([]Model, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	tables := tableNames(file)

	var models []Model
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			model := structToModel(fset, path, ts, st)
			if table, ok := tables[model.Name]; ok {
				model.Meta = map[string]string{"table_name": table}
			}
			if model.Meta == nil && !embedsModelBase(model.Embeds) {
				continue
			}
			models = append(models, model)
		}
	}

	return models, nil
}

// structToModel walks a struct's field list into a Model.
func structToModel(fset *token.FileSet, path string, ts *ast.TypeSpec, st *ast.StructType) Model {
	model := Model{
		Name: ts.Name.Name,
		File: path,
		Line: fset.Position(ts.Pos()).Line,
	}

	if st.Fields == nil {
		return model
	}
	for _, field := range st.Fields.List {
		// Anonymous field = embedded type
		if len(field.Names) == 0 {
			if name := typeLabel(field.Type); name != "" {
				model.Embeds = append(model.Embeds, strings.TrimPrefix(name, "*"))
			}
			continue
		}
		for _, name := range field.Names {
			model.Fields = append(model.Fields, Field{
				Name: name.Name,
				Type: typeLabel(field.Type),
				Tag:  fieldTag(field),
				Line: fset.Position(field.Pos()).Line,
			})
			if target, kind, ok := relationTarget(field.Type); ok {
				model.Relationships = append(model.Relationships, Relationship{
					Field:  name.Name,
					Kind:   kind,
					Target: target,
				})
			}
		}
	}

	return model
}

// tableNames collects TableName methods that return a single string
// literal, keyed by receiver type name.
func tableNames(file *ast.File) map[string]string {
	tables := make(map[string]string)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "TableName" || fn.Recv == nil {
			continue
		}
		recv := receiverName(fn)
		if recv == "" {
			continue
		}
		if value, ok := literalStringReturn(fn); ok {
			tables[recv] = value
		}
	}
	return tables
}

// receiverName resolves a method's receiver type name, through a pointer.
func receiverName(fn *ast.FuncDecl) string {
	if len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// literalStringReturn matches a body consisting of `return "literal"`.
func literalStringReturn(fn *ast.FuncDecl) (string, bool) {
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return "", false
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return "", false
	}
	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

// embedsModelBase reports whether any embedded base name ends in "Model".
func embedsModelBase(embeds []string) bool {
	for _, embed := range embeds {
		base := embed
		if i := strings.LastIndex(base, "."); i >= 0 {
			base = base[i+1:]
		}
		if strings.HasSuffix(base, "Model") {
			return true
		}
	}
	return false
}

// relationTarget classifies a field type as a link to another model type.
// Pointers to exported local types are references, slices of them (or of
// their pointers) are collections. Builtins and qualified types from other
// packages do not qualify.
func relationTarget(expr ast.Expr) (target, kind string, ok bool) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok && ast.IsExported(ident.Name) {
			return ident.Name, "reference", true
		}
	case *ast.ArrayType:
		if t.Len != nil {
			return "", "", false
		}
		elem := t.Elt
		if star, ok := elem.(*ast.StarExpr); ok {
			elem = star.X
		}
		if ident, ok := elem.(*ast.Ident); ok && ast.IsExported(ident.Name) {
			return ident.Name, "collection", true
		}
	}
	return "", "", false
}

// typeLabel renders a type expression as the declared source text.
func typeLabel(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name

	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return fmt.Sprintf("%s.%s", x.Name, t.Sel.Name)
		}
		return t.Sel.Name

	case *ast.StarExpr:
		return "*" + typeLabel(t.X)

	case *ast.ArrayType:
		return "[]" + typeLabel(t.Elt)

	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", typeLabel(t.Key), typeLabel(t.Value))

	case *ast.ChanType:
		return "chan " + typeLabel(t.Value)

	case *ast.FuncType:
		return "func"

	case *ast.InterfaceType:
		return "interface{}"

	case *ast.StructType:
		return "struct{}"

	default:
		return ""
	}
}

// fieldTag unquotes a struct field tag, if any.
func fieldTag(field *ast.Field) string {
	if field.Tag == nil {
		return ""
	}
	tag, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return strings.Trim(field.Tag.Value, "`")
	}
	return tag
}
