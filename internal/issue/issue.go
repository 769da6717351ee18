// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ProjectRootNotFoundId Id = iota + 1
	ConfigNotFoundId
	MalformedDocumentId
	BundleNotFoundId
	SourceNotFoundId
	DependencyCycleId
	SettingsLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the Markdown message with the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	projectRootNotFoundIssue = &Issue{
		id: ProjectRootNotFoundId,
		mdMsg: `
# Project root not found!

The project directory passed to jsbundle does not exist or is not a directory.

## Things you can try:
- Check the path for typos
- Run jsbundle from the project directory without arguments:
~~~
$ cd /path/to/project
$ jsbundle plan
~~~`,
	}

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# No bundle configuration found!

jsbundle searched the project root for configuration documents but found none.

## Searched patterns:
- ` + "`**/jsbundle.{cue,hcl,toml,yaml,yml,xml}`" + `
- plus any ` + "`discovery.patterns`" + ` from your settings

## Things you can try:
- Create a starter document:
~~~
$ jsbundle init
~~~

- Or pass documents explicitly:
~~~
$ jsbundle plan -c config/bundles.yaml
~~~`,
	}

	malformedDocumentIssue = &Issue{
		id: MalformedDocumentId,
		mdMsg: `
# Malformed configuration document!

A configuration document could not be parsed.

## Things you can try:
- Check the syntax at the position reported above
- Make sure every bundle has a non-empty ` + "`name`" + ` and every item a ` + "`path`" + `
- ` + "`includes`" + ` is a single comma-separated string, e.g. ` + "`\"core, ui\"`" + `
- In XML, ` + "`virtual`" + ` must be a boolean such as ` + "`true`" + ` or ` + "`false`",
	}

	bundleNotFoundIssue = &Issue{
		id: BundleNotFoundId,
		mdMsg: `
# Included bundle not found!

A bundle lists a parent in ` + "`includes`" + ` that no loaded document defines.

## Things you can try:
- Check the bundle name for typos (names are case-sensitive)
- Make sure the document that defines the parent is discovered or passed with ` + "`-c`" + `
- List known bundles:
~~~
$ jsbundle graph
~~~`,
	}

	sourceNotFoundIssue = &Issue{
		id: SourceNotFoundId,
		mdMsg: `
# Source file not found!

A bundle item resolves to a ` + "`.js`" + ` file that does not exist.

Items resolve to ` + "`<project root>/<entry point>/<name>.js`" + ` after one level of path
alias substitution. Aliases are not chained: an alias pointing at another alias
key is used as-is.

## Things you can try:
- Check the item path and the ` + "`entryPoint`" + ` setting
- Check the ` + "`paths`" + ` aliases for the module`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Bundle includes cannot be resolved!

The include graph has a cycle, or no bundle is free of includes.

## Things you can try:
- Look at the cycle printed above and remove one of its includes
- Make sure at least one bundle has no ` + "`includes`" + `
- Inspect the layers that did resolve:
~~~
$ jsbundle graph
~~~`,
	}

	settingsLoadFailedIssue = &Issue{
		id: SettingsLoadFailedId,
		mdMsg: `
# Failed to load settings!

The jsbundle settings file could not be read or does not match the schema.

## Things you can try:
- Show where settings are read from:
~~~
$ jsbundle config path
~~~

- Validate the file's CUE syntax
- Remove the file to fall back to defaults`,
	}

	issues = map[Id]*Issue{
		projectRootNotFoundIssue.Id(): projectRootNotFoundIssue,
		configNotFoundIssue.Id():      configNotFoundIssue,
		malformedDocumentIssue.Id():   malformedDocumentIssue,
		bundleNotFoundIssue.Id():      bundleNotFoundIssue,
		sourceNotFoundIssue.Id():      sourceNotFoundIssue,
		dependencyCycleIssue.Id():     dependencyCycleIssue,
		settingsLoadFailedIssue.Id():  settingsLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
