package project

import (
	"strings"

	"github.com/willibrandon/goclide/xmldoc"
)

// Item kinds exposed as ItemPaths views.
const (
	CompileItem = "Compile"
	ContentItem = "Content"
)

// ItemPath is a Compile or Content item.
type ItemPath struct {
	project *Project
	node    xmldoc.NodeID
}

// Kind returns the element name, Compile or Content.
func (i *ItemPath) Kind() string { return i.project.doc.Name(i.node) }

// Include returns the Include attribute.
func (i *ItemPath) Include() string {
	v, _ := i.project.doc.Attr(i.node, "Include")
	return v
}

// Exclude returns the Exclude attribute, or "".
func (i *ItemPath) Exclude() string {
	v, _ := i.project.doc.Attr(i.node, "Exclude")
	return v
}

// DependentUpon returns the DependentUpon child, or "".
func (i *ItemPath) DependentUpon() string {
	v, _ := i.project.doc.ChildText(i.node, "DependentUpon")
	return v
}

// Link returns the Link child, or "".
func (i *ItemPath) Link() string {
	v, _ := i.project.doc.ChildText(i.node, "Link")
	return v
}

// SetExclude sets or, when empty, removes the Exclude attribute.
func (i *ItemPath) SetExclude(exclude string) {
	if exclude == "" {
		i.project.doc.RemoveAttr(i.node, "Exclude")
		return
	}
	i.project.doc.SetAttr(i.node, "Exclude", NormalizePath(exclude))
}

// SetDependentUpon sets or, when empty, removes the DependentUpon child.
func (i *ItemPath) SetDependentUpon(path string) {
	i.project.setChildText(i.node, "DependentUpon", NormalizePath(path))
}

// SetLink sets or, when empty, removes the Link child.
func (i *ItemPath) SetLink(path string) {
	i.project.setChildText(i.node, "Link", NormalizePath(path))
}

// Remove deletes the item.
func (i *ItemPath) Remove() { i.project.removeItem(i.node) }

// ItemOption configures an item added through ItemPaths.Add.
type ItemOption func(*ItemPath)

// WithLink sets the Link child of a new item.
func WithLink(link string) ItemOption {
	return func(i *ItemPath) { i.SetLink(link) }
}

// WithDependentUpon sets the DependentUpon child of a new item.
func WithDependentUpon(path string) ItemOption {
	return func(i *ItemPath) { i.SetDependentUpon(path) }
}

// WithExclude sets the Exclude attribute of a new item.
func WithExclude(exclude string) ItemOption {
	return func(i *ItemPath) { i.SetExclude(exclude) }
}

// ItemPaths is the live list of one kind of file item.
type ItemPaths struct {
	project *Project
	kind    string
}

// CompilePaths returns a view over the project's Compile items.
func (p *Project) CompilePaths() *ItemPaths {
	return &ItemPaths{project: p, kind: CompileItem}
}

// Content returns a view over the project's Content items.
func (p *Project) Content() *ItemPaths {
	return &ItemPaths{project: p, kind: ContentItem}
}

// All returns every item of this kind in document order.
func (ps *ItemPaths) All() []*ItemPath {
	var out []*ItemPath
	for _, node := range ps.project.items(ps.kind) {
		out = append(out, &ItemPath{project: ps.project, node: node})
	}
	return out
}

// Len returns the number of items.
func (ps *ItemPaths) Len() int { return len(ps.project.items(ps.kind)) }

// Includes returns the Include attribute of every item.
func (ps *ItemPaths) Includes() []string {
	var out []string
	for _, item := range ps.All() {
		out = append(out, item.Include())
	}
	return out
}

// Get returns the item whose Include matches path after normalization,
// ignoring case.
func (ps *ItemPaths) Get(path string) *ItemPath {
	want := NormalizePath(path)
	for _, item := range ps.All() {
		if strings.EqualFold(item.Include(), want) {
			return item
		}
	}
	return nil
}

// Add appends an item with the given Include path, normalized to
// backslashes.
func (ps *ItemPaths) Add(include string, opts ...ItemOption) *ItemPath {
	p := ps.project
	node := p.doc.AppendElement(p.itemGroupFor(ps.kind), ps.kind,
		xmldoc.Attr{Name: "Include", Value: NormalizePath(include)})
	item := &ItemPath{project: p, node: node}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// Remove deletes the item matched by Get.
func (ps *ItemPaths) Remove(path string) bool {
	item := ps.Get(path)
	if item == nil {
		return false
	}
	item.Remove()
	return true
}

// DefaultCSharpImport is the targets file imported by C# projects.
const DefaultCSharpImport = `$(MSBuildBinPath)\Microsoft.CSharp.targets`

// Import is a top-level Import element.
type Import struct {
	project *Project
	node    xmldoc.NodeID
}

// Project returns the imported targets path.
func (i *Import) Project() string {
	v, _ := i.project.doc.Attr(i.node, "Project")
	return v
}

// Remove deletes the import.
func (i *Import) Remove() { i.project.doc.Remove(i.node) }

// Imports is the live list of a project's target imports.
type Imports struct {
	project *Project
}

// Imports returns a view over the project's Import elements.
func (p *Project) Imports() *Imports {
	return &Imports{project: p}
}

// All returns every top-level Import in document order.
func (is *Imports) All() []*Import {
	doc := is.project.doc
	var out []*Import
	for _, node := range doc.ElementsNamed(doc.Root(), "Import") {
		out = append(out, &Import{project: is.project, node: node})
	}
	return out
}

// Len returns the number of imports.
func (is *Imports) Len() int { return len(is.All()) }

// Add appends an Import of the given targets path.
func (is *Imports) Add(path string) *Import {
	doc := is.project.doc
	node := doc.AppendElement(doc.Root(), "Import", xmldoc.Attr{Name: "Project", Value: path})
	return &Import{project: is.project, node: node}
}

// AddDefaultCSharpImport imports the standard C# targets.
func (p *Project) AddDefaultCSharpImport() *Import {
	return p.Imports().Add(DefaultCSharpImport)
}
