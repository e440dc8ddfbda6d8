package xmldoc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const msbuildNS = "http://schemas.microsoft.com/developer/msbuild/2003"

func TestNew_WritesDeclarationAndOpenRoot(t *testing.T) {
	doc := New("Project", Attr{Name: "xmlns", Value: msbuildNS})

	want := `<?xml version="1.0" encoding="utf-8"?>
<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
</Project>`
	assert.Equal(t, want, doc.String())
}

func TestAppendElement_Layout(t *testing.T) {
	doc := New("Project", Attr{Name: "xmlns", Value: msbuildNS})
	group := doc.AppendElement(doc.Root(), "PropertyGroup", Attr{Name: "Condition", Value: " '$(Configuration)|$(Platform)' == 'Foo|AnyCPU' "})
	doc.AppendElement(doc.Root(), "ItemGroup")

	want := `<?xml version="1.0" encoding="utf-8"?>
<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup Condition=" '$(Configuration)|$(Platform)' == 'Foo|AnyCPU' " />
  <ItemGroup />
</Project>`
	assert.Equal(t, want, doc.String())

	doc.SetText(doc.AppendElement(group, "Hello"), "there")
	want = `<?xml version="1.0" encoding="utf-8"?>
<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup Condition=" '$(Configuration)|$(Platform)' == 'Foo|AnyCPU' ">
    <Hello>there</Hello>
  </PropertyGroup>
  <ItemGroup />
</Project>`
	assert.Equal(t, want, doc.String())
}

func TestParse_RoundTrip(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="4.0" DefaultTargets="Build" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup>
    <Configuration Condition=" '$(Configuration)' == '' ">Debug</Configuration>
    <OutputPath>bin\Debug\</OutputPath>
  </PropertyGroup>
  <!-- references -->
  <ItemGroup>
    <Reference Include="System" />
    <Reference Include="nunit.framework, Version=2.5.8.10295, Culture=neutral">
      <HintPath>..\lib\nunit.framework.dll</HintPath>
    </Reference>
  </ItemGroup>
  <Import Project="$(MSBuildBinPath)\Microsoft.CSharp.targets" />
</Project>`

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	if diff := cmp.Diff(src, doc.String()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_StripsBOMAndKeepsCRLF(t *testing.T) {
	src := "\xEF\xBB\xBF<?xml version=\"1.0\" encoding=\"utf-8\"?>\r\n<Project>\r\n  <A>1</A>\r\n</Project>"

	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "\r\n", doc.LineEnding())
	assert.Equal(t, src[3:], doc.String())
}

func TestParse_KeepsWhitespaceOnlyContent(t *testing.T) {
	src := `<Project>
  <PropertyGroup>
    <NoWarn> </NoWarn>
    <Tab>	</Tab>
  </PropertyGroup>
</Project>`

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	group := doc.FirstElement(doc.Root(), "PropertyGroup")
	assert.Equal(t, " ", doc.Text(doc.FirstElement(group, "NoWarn")))
	assert.Equal(t, "\t", doc.Text(doc.FirstElement(group, "Tab")))
	assert.Equal(t, src, doc.String())
}

func TestAppendElement_DropsBlankContent(t *testing.T) {
	doc, err := Parse([]byte("<Project>\r\n  <ItemGroup>\r\n  </ItemGroup>\r\n</Project>"))
	require.NoError(t, err)
	assert.Equal(t, "<Project>\r\n  <ItemGroup>\r\n  </ItemGroup>\r\n</Project>", doc.String())

	group := doc.FirstElement(doc.Root(), "ItemGroup")
	doc.AppendElement(group, "Compile", Attr{Name: "Include", Value: "a.cs"})
	assert.Equal(t, "<Project>\r\n  <ItemGroup>\r\n    <Compile Include=\"a.cs\" />\r\n  </ItemGroup>\r\n</Project>", doc.String())
}

func TestParse_NoDeclaration(t *testing.T) {
	doc, err := Parse([]byte(`<root a="1"><b/></root>`))
	require.NoError(t, err)
	assert.Empty(t, doc.Declaration())
	assert.Equal(t, "<root a=\"1\">\n  <b />\n</root>", doc.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"unclosed", "<a><b></b>"},
		{"mismatched", "<a></b>"},
		{"two roots", "<a/><b/>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestNavigation(t *testing.T) {
	doc, err := Parse([]byte(`<Project>
  <ItemGroup>
    <Compile Include="a.cs"><DependentUpon>a.designer</DependentUpon></Compile>
    <Content Include="b.txt" />
  </ItemGroup>
  <ItemGroup>
    <Compile Include="c.cs" />
  </ItemGroup>
</Project>`))
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, "Project", doc.Name(root))
	assert.Len(t, doc.ElementsNamed(root, "ItemGroup"), 2)

	compiles := doc.Descendants(root, "Compile")
	require.Len(t, compiles, 2)
	include, ok := doc.Attr(compiles[1], "Include")
	assert.True(t, ok)
	assert.Equal(t, "c.cs", include)

	dep, ok := doc.ChildText(compiles[0], "DependentUpon")
	assert.True(t, ok)
	assert.Equal(t, "a.designer", dep)

	_, ok = doc.ChildText(compiles[1], "DependentUpon")
	assert.False(t, ok)

	assert.Equal(t, doc.ElementsNamed(root, "ItemGroup")[0], doc.Parent(compiles[0]))
}

func TestRemove(t *testing.T) {
	doc, err := Parse([]byte(`<r><a/><b/><c/></r>`))
	require.NoError(t, err)

	b := doc.FirstElement(doc.Root(), "b")
	doc.Remove(b)

	assert.False(t, doc.Attached(b))
	assert.Equal(t, NoNode, doc.FirstElement(doc.Root(), "b"))
	assert.Equal(t, "<r>\n  <a />\n  <c />\n</r>", doc.String())

	doc.Remove(doc.Root())
	assert.True(t, doc.Attached(doc.Root()))
}

func TestAttributes(t *testing.T) {
	doc := New("r")
	root := doc.Root()

	doc.SetAttr(root, "B", "2")
	doc.SetAttr(root, "A", `say "hi" & 'bye'`)
	doc.SetAttr(root, "B", "3")

	assert.Equal(t, []Attr{{Name: "B", Value: "3"}, {Name: "A", Value: `say "hi" & 'bye'`}}, doc.Attrs(root))
	assert.Contains(t, doc.String(), `<r B="3" A="say &quot;hi&quot; &amp; 'bye'">`)

	doc.RemoveAttr(root, "B")
	_, ok := doc.Attr(root, "B")
	assert.False(t, ok)
}

func TestSetText_Escapes(t *testing.T) {
	doc := New("r")
	el := doc.AppendElement(doc.Root(), "v")
	doc.SetText(el, "a < b && c > d")

	assert.Equal(t, "a < b && c > d", doc.Text(el))
	assert.Contains(t, doc.String(), "<v>a &lt; b &amp;&amp; c &gt; d</v>")

	doc.SetText(el, "")
	assert.Contains(t, doc.String(), "<v />")

	again, err := Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, doc.String(), again.String())
}

func TestPrefixesPreserved(t *testing.T) {
	src := `<x:root xmlns:x="urn:x">
  <x:item x:kind="a">text</x:item>
</x:root>`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, doc.String())
	assert.Len(t, doc.ElementsNamed(doc.Root(), "x:item"), 1)
}
