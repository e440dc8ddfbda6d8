package project

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/willibrandon/goclide/xmldoc"
)

// itemGroupFor returns the first unconditioned ItemGroup that already holds
// an element of the given kind, or appends a new ItemGroup.
func (p *Project) itemGroupFor(tag string) xmldoc.NodeID {
	doc := p.doc
	for _, group := range doc.ElementsNamed(doc.Root(), "ItemGroup") {
		if _, conditioned := doc.Attr(group, "Condition"); conditioned {
			continue
		}
		if doc.FirstElement(group, tag) != xmldoc.NoNode {
			return group
		}
	}
	return doc.AppendElement(doc.Root(), "ItemGroup")
}

// items returns every element of the given kind inside any top-level ItemGroup.
func (p *Project) items(tag string) []xmldoc.NodeID {
	doc := p.doc
	var out []xmldoc.NodeID
	for _, group := range doc.ElementsNamed(doc.Root(), "ItemGroup") {
		out = append(out, doc.ElementsNamed(group, tag)...)
	}
	return out
}

// removeItem deletes an item element and drops its ItemGroup once empty.
func (p *Project) removeItem(node xmldoc.NodeID) {
	doc := p.doc
	group := doc.Parent(node)
	doc.Remove(node)
	if group != xmldoc.NoNode && len(doc.Elements(group)) == 0 {
		doc.Remove(group)
	}
}

// setChildText sets the text of a child element, creating it if needed.
// An empty value removes the child.
func (p *Project) setChildText(node xmldoc.NodeID, name, value string) {
	doc := p.doc
	child := doc.FirstElement(node, name)
	if value == "" {
		if child != xmldoc.NoNode {
			doc.Remove(child)
		}
		return
	}
	if child == xmldoc.NoNode {
		child = doc.AppendElement(node, name)
	}
	doc.SetText(child, value)
}

// Reference is an assembly reference.
type Reference struct {
	project *Project
	node    xmldoc.NodeID
}

// FullName returns the Include attribute, possibly assembly-qualified, e.g.
// "nunit.framework, Version=2.5.8.10295, Culture=neutral".
func (r *Reference) FullName() string {
	v, _ := r.project.doc.Attr(r.node, "Include")
	return v
}

// Name returns the short assembly name, the part of FullName before the
// first comma.
func (r *Reference) Name() string {
	name, _, _ := strings.Cut(r.FullName(), ",")
	return strings.TrimSpace(name)
}

// HintPath returns the HintPath child, or "" when absent.
func (r *Reference) HintPath() string {
	v, _ := r.project.doc.ChildText(r.node, "HintPath")
	return v
}

// SetHintPath sets the HintPath child, normalized to backslashes.
func (r *Reference) SetHintPath(path string) {
	r.project.setChildText(r.node, "HintPath", NormalizePath(path))
}

// SpecificVersion returns the SpecificVersion child parsed as a bool. A
// missing or unparsable value is false.
func (r *Reference) SpecificVersion() bool {
	v, ok := r.project.doc.ChildText(r.node, "SpecificVersion")
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// SetSpecificVersion writes the SpecificVersion child as True or False.
func (r *Reference) SetSpecificVersion(specific bool) {
	r.project.setChildText(r.node, "SpecificVersion", formatBool(specific))
}

// Remove deletes the reference from the project.
func (r *Reference) Remove() { r.project.removeItem(r.node) }

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// References is the live list of a project's assembly references.
type References struct {
	project *Project
}

// References returns a view over the project's assembly references.
func (p *Project) References() *References {
	return &References{project: p}
}

// All returns every Reference item in document order.
func (rs *References) All() []*Reference {
	var refs []*Reference
	for _, node := range rs.project.items("Reference") {
		refs = append(refs, &Reference{project: rs.project, node: node})
	}
	return refs
}

// Len returns the number of references.
func (rs *References) Len() int { return len(rs.project.items("Reference")) }

// Get finds a reference by FullName, then by short Name. The first match
// wins.
func (rs *References) Get(name string) *Reference {
	all := rs.All()
	for _, r := range all {
		if r.FullName() == name {
			return r
		}
	}
	for _, r := range all {
		if r.Name() == name {
			return r
		}
	}
	return nil
}

// AddGacReference adds a reference resolved from the global assembly cache.
func (rs *References) AddGacReference(fullName string) *Reference {
	p := rs.project
	node := p.doc.AppendElement(p.itemGroupFor("Reference"), "Reference", xmldoc.Attr{Name: "Include", Value: fullName})
	return &Reference{project: p, node: node}
}

// AddDll adds a reference to an assembly on disk.
func (rs *References) AddDll(fullName, hintPath string) *Reference {
	return rs.AddDllWithVersion(fullName, hintPath, false)
}

// AddDllWithVersion adds a reference to an assembly on disk with an explicit
// SpecificVersion flag.
func (rs *References) AddDllWithVersion(fullName, hintPath string, specificVersion bool) *Reference {
	r := rs.AddGacReference(fullName)
	r.SetHintPath(hintPath)
	r.SetSpecificVersion(specificVersion)
	return r
}

// Remove deletes the reference matched by Get. It reports whether one was
// found.
func (rs *References) Remove(name string) bool {
	r := rs.Get(name)
	if r == nil {
		return false
	}
	r.Remove()
	return true
}

// ProjectReference is a reference to another project file.
type ProjectReference struct {
	project *Project
	node    xmldoc.NodeID
}

// ProjectFile returns the Include attribute.
func (r *ProjectReference) ProjectFile() string {
	v, _ := r.project.doc.Attr(r.node, "Include")
	return v
}

// Name returns the Name child.
func (r *ProjectReference) Name() string {
	v, _ := r.project.doc.ChildText(r.node, "Name")
	return v
}

// ProjectID returns the Project child as a GUID, or uuid.Nil if it does not
// parse.
func (r *ProjectReference) ProjectID() uuid.UUID {
	v, _ := r.project.doc.ChildText(r.node, "Project")
	id, _ := ParseGUID(v)
	return id
}

// Remove deletes the project reference.
func (r *ProjectReference) Remove() { r.project.removeItem(r.node) }

// ProjectReferences is the live list of a project's project references.
type ProjectReferences struct {
	project *Project
}

// ProjectReferences returns a view over the project's project references.
func (p *Project) ProjectReferences() *ProjectReferences {
	return &ProjectReferences{project: p}
}

// All returns every ProjectReference item in document order.
func (rs *ProjectReferences) All() []*ProjectReference {
	var refs []*ProjectReference
	for _, node := range rs.project.items("ProjectReference") {
		refs = append(refs, &ProjectReference{project: rs.project, node: node})
	}
	return refs
}

// Len returns the number of project references.
func (rs *ProjectReferences) Len() int { return len(rs.project.items("ProjectReference")) }

// Get finds a project reference by Name or by project file.
func (rs *ProjectReferences) Get(name string) *ProjectReference {
	for _, r := range rs.All() {
		if r.Name() == name || r.ProjectFile() == NormalizePath(name) {
			return r
		}
	}
	return nil
}

// Add references another project by name, file and GUID.
func (rs *ProjectReferences) Add(name, projectFile string, id uuid.UUID) *ProjectReference {
	p := rs.project
	doc := p.doc
	node := doc.AppendElement(p.itemGroupFor("ProjectReference"), "ProjectReference",
		xmldoc.Attr{Name: "Include", Value: NormalizePath(projectFile)})
	doc.SetText(doc.AppendElement(node, "Project"), FormatGUID(id))
	doc.SetText(doc.AppendElement(node, "Name"), name)
	return &ProjectReference{project: p, node: node}
}

// Remove deletes the project reference matched by Get.
func (rs *ProjectReferences) Remove(name string) bool {
	r := rs.Get(name)
	if r == nil {
		return false
	}
	r.Remove()
	return true
}
