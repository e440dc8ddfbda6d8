package project

import (
	"strings"

	"github.com/google/uuid"

	"github.com/willibrandon/goclide/xmldoc"
)

// Configuration is one PropertyGroup of a project. Groups without a
// Condition form the global configuration; groups whose Condition selects a
// "Name|Platform" pair form named configurations.
type Configuration struct {
	project  *Project
	node     xmldoc.NodeID
	name     string
	platform string
}

// Name returns the configuration name. It is empty for the global
// configuration.
func (c *Configuration) Name() string { return c.name }

// Platform returns the configuration platform, e.g. "AnyCPU".
func (c *Configuration) Platform() string { return c.platform }

// IsGlobal reports whether this is an unconditioned property group.
func (c *Configuration) IsGlobal() bool { return c.name == "" }

// String returns "Global" or "Name|Platform".
func (c *Configuration) String() string {
	if c.IsGlobal() {
		return "Global"
	}
	return c.name + "|" + c.platform
}

// Properties returns the properties of this group in document order.
func (c *Configuration) Properties() []*Property {
	doc := c.project.doc
	var props []*Property
	for _, el := range doc.Elements(c.node) {
		props = append(props, &Property{config: c, node: el})
	}
	return props
}

// Property returns the named property, or nil.
func (c *Configuration) Property(name string) *Property {
	for _, prop := range c.Properties() {
		if prop.Name() == name {
			return prop
		}
	}
	return nil
}

// Get returns the text of the named property.
func (c *Configuration) Get(name string) (string, bool) {
	prop := c.Property(name)
	if prop == nil {
		return "", false
	}
	return prop.Text(), true
}

// Set sets the text of the named property, creating it on first use.
func (c *Configuration) Set(name, value string) *Property {
	prop := c.Property(name)
	if prop == nil {
		prop = &Property{config: c, node: c.project.doc.AppendElement(c.node, name)}
	}
	prop.SetText(value)
	return prop
}

// SetWithCondition sets a property and its own Condition attribute.
func (c *Configuration) SetWithCondition(name, value, condition string) *Property {
	prop := c.Set(name, value)
	prop.SetCondition(condition)
	return prop
}

// Remove deletes the whole property group from the project.
func (c *Configuration) Remove() {
	c.project.doc.Remove(c.node)
}

// AddDefaultGlobalProperties fills the group with the canonical global
// property set.
func (c *Configuration) AddDefaultGlobalProperties(id uuid.UUID, targetFrameworkVersion, outputType, rootNamespace, assemblyName string) {
	c.SetWithCondition("Configuration", "Debug", " '$(Configuration)' == '' ")
	c.SetWithCondition("Platform", DefaultPlatform, " '$(Platform)' == '' ")
	c.Set("ProductVersion", "8.0.30703")
	c.Set("SchemaVersion", "2.0")
	c.Set("ProjectGuid", FormatGUID(id))
	c.Set("OutputType", outputType)
	c.Set("RootNamespace", rootNamespace)
	c.Set("AssemblyName", assemblyName)
	c.Set("TargetFrameworkVersion", TargetFrameworkVersionFromString(targetFrameworkVersion))
	c.Set("FileAlignment", "512")
}

// AddDefaultDebugProperties fills the group with the canonical Debug set.
func (c *Configuration) AddDefaultDebugProperties() {
	c.Set("DebugSymbols", "true")
	c.Set("DebugType", "full")
	c.Set("Optimize", "false")
	c.Set("OutputPath", `bin\Debug\`)
	c.Set("DefineConstants", "DEBUG;TRACE")
	c.Set("ErrorReport", "prompt")
	c.Set("WarningLevel", "4")
}

// AddDefaultReleaseProperties fills the group with the canonical Release set.
func (c *Configuration) AddDefaultReleaseProperties() {
	c.Set("DebugType", "pdbonly")
	c.Set("Optimize", "true")
	c.Set("OutputPath", `bin\Release\`)
	c.Set("DefineConstants", "TRACE")
	c.Set("ErrorReport", "prompt")
	c.Set("WarningLevel", "4")
}

// Property is a single element inside a property group.
type Property struct {
	config *Configuration
	node   xmldoc.NodeID
}

// Name returns the element name of the property.
func (p *Property) Name() string { return p.config.project.doc.Name(p.node) }

// Text returns the property value.
func (p *Property) Text() string { return p.config.project.doc.Text(p.node) }

// SetText replaces the property value.
func (p *Property) SetText(value string) { p.config.project.doc.SetText(p.node, value) }

// Condition returns the property's own Condition attribute, if any.
func (p *Property) Condition() string {
	v, _ := p.config.project.doc.Attr(p.node, "Condition")
	return v
}

// SetCondition sets the property's Condition attribute. An empty value
// removes it.
func (p *Property) SetCondition(condition string) {
	if condition == "" {
		p.config.project.doc.RemoveAttr(p.node, "Condition")
		return
	}
	p.config.project.doc.SetAttr(p.node, "Condition", condition)
}

// Configuration returns the group the property belongs to.
func (p *Property) Configuration() *Configuration { return p.config }

// Remove deletes the property from its group.
func (p *Property) Remove() { p.config.project.doc.Remove(p.node) }

// Configurations is the live list of a project's property groups.
type Configurations struct {
	project *Project
}

// Configurations returns a view over the project's property groups.
func (p *Project) Configurations() *Configurations {
	return &Configurations{project: p}
}

// All returns the global and named configurations in document order.
// Property groups with an unrecognized Condition are skipped.
func (cs *Configurations) All() []*Configuration {
	doc := cs.project.doc
	var configs []*Configuration
	for _, group := range doc.ElementsNamed(doc.Root(), "PropertyGroup") {
		condition, conditioned := doc.Attr(group, "Condition")
		if !conditioned {
			configs = append(configs, &Configuration{project: cs.project, node: group})
			continue
		}
		name, platform, ok := ParseConfigurationCondition(condition)
		if !ok {
			continue
		}
		configs = append(configs, &Configuration{project: cs.project, node: group, name: name, platform: platform})
	}
	return configs
}

// Len returns the number of recognized configurations.
func (cs *Configurations) Len() int { return len(cs.All()) }

// Get returns the first named configuration matching name, ignoring case.
func (cs *Configurations) Get(name string) *Configuration {
	for _, c := range cs.All() {
		if !c.IsGlobal() && strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

// Add appends a named configuration for the default platform.
func (cs *Configurations) Add(name string) *Configuration {
	return cs.AddWithPlatform(name, DefaultPlatform)
}

// AddWithPlatform appends a named configuration for the given platform.
func (cs *Configurations) AddWithPlatform(name, platform string) *Configuration {
	doc := cs.project.doc
	group := doc.AppendElement(doc.Root(), "PropertyGroup",
		xmldoc.Attr{Name: "Condition", Value: FormatConfigurationCondition(name, platform)})
	return &Configuration{project: cs.project, node: group, name: name, platform: platform}
}

// AddGlobal appends an unconditioned property group.
func (cs *Configurations) AddGlobal() *Configuration {
	doc := cs.project.doc
	return &Configuration{project: cs.project, node: doc.AppendElement(doc.Root(), "PropertyGroup")}
}

// Names returns the distinct configuration names in document order.
func (cs *Configurations) Names() []string {
	var names []string
	seen := map[string]bool{}
	for _, c := range cs.All() {
		if c.IsGlobal() || seen[c.name] {
			continue
		}
		seen[c.name] = true
		names = append(names, c.name)
	}
	return names
}

// Global returns the first unconditioned property group, or nil.
func (p *Project) Global() *Configuration {
	for _, c := range p.Configurations().All() {
		if c.IsGlobal() {
			return c
		}
	}
	return nil
}

// Config returns the named configuration, ignoring case, or nil.
func (p *Project) Config(name string) *Configuration {
	return p.Configurations().Get(name)
}

// GlobalProperties returns the properties of every unconditioned property
// group in document order.
func (p *Project) GlobalProperties() []*Property {
	var props []*Property
	for _, c := range p.Configurations().All() {
		if c.IsGlobal() {
			props = append(props, c.Properties()...)
		}
	}
	return props
}

// GlobalProperty returns the text of the first global property with the
// given name.
func (p *Project) GlobalProperty(name string) (string, bool) {
	for _, prop := range p.GlobalProperties() {
		if prop.Name() == name {
			return prop.Text(), true
		}
	}
	return "", false
}

// DefaultConfigurationName returns the value of the global Configuration
// property, falling back to the first named configuration.
func (p *Project) DefaultConfigurationName() string {
	if v, ok := p.GlobalProperty("Configuration"); ok && v != "" {
		return v
	}
	if names := p.Configurations().Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}
