// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SourceFolderNotSetId Id = iota + 1
	ExportFolderNotSetId
	DatapackNameNotSetId
	InvalidDatapackNameId
	PackFileNotFoundId
	ConfigLoadFailedId
	SettingsUnavailableId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // pages documenting the pack format involved
	extLinks []HttpLink  // external links that might be useful for the user
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

// Render renders the issue page with the glamour style at stylePath
// ("auto", "dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	packFormatDoc   HttpLink = "https://minecraft.wiki/w/Data_pack"
	resourcePackDoc HttpLink = "https://minecraft.wiki/w/Resource_pack"
	mcmetaDoc       HttpLink = "https://minecraft.wiki/w/Pack.mcmeta"

	sourceFolderNotSetIssue = &Issue{
		id: SourceFolderNotSetId,
		mdMsg: `
# No datapack folder chosen!

dpzip needs the folder that contains your datapack's ` + "`data/`" + ` folder,
` + "`pack.mcmeta`" + ` and ` + "`pack.png`" + `.

## Things you can try:
- Pass it on the command line:
~~~
$ dpzip build --source ./my_datapack
~~~
- Or pick it in the interactive form, which remembers it for next time:
~~~
$ dpzip form
~~~`,
		docLinks: []HttpLink{packFormatDoc},
	}

	exportFolderNotSetIssue = &Issue{
		id: ExportFolderNotSetId,
		mdMsg: `
# No export folder chosen!

dpzip writes ` + "`<name>.zip`" + ` (and ` + "`<name>_resources.zip`" + `) into an existing export folder.

## Things you can try:
- Pass it on the command line:
~~~
$ dpzip build --export ./dist
~~~
- Store it once so later builds reuse it:
~~~
$ dpzip settings set target_folder_path ./dist
~~~`,
	}

	datapackNameNotSetIssue = &Issue{
		id: DatapackNameNotSetId,
		mdMsg: `
# No datapack name chosen!

The name becomes the archive file name: ` + "`--name my_pack`" + ` produces ` + "`my_pack.zip`" + `.

## Things you can try:
~~~
$ dpzip build --name my_pack
~~~`,
	}

	invalidDatapackNameIssue = &Issue{
		id: InvalidDatapackNameId,
		mdMsg: `
# The datapack name can't be used as a file name!

Names must not contain ` + "`/`" + ` or ` + "`\\`" + `, must not be ` + "`.`" + ` or ` + "`..`" + `,
and must not be a name Windows reserves (` + "`CON`, `PRN`, `AUX`, `NUL`, `COM1`-`COM9`, `LPT1`-`LPT9`" + `).

## Things you can try:
- Choose a plain name such as ` + "`my_pack_v2`" + `
- Put the archives in a sub folder with ` + "`--export`" + ` instead of adding a path to the name`,
	}

	packFileNotFoundIssue = &Issue{
		id: PackFileNotFoundId,
		mdMsg: `
# A required pack file or folder is missing!

A datapack archive needs these inside the datapack folder:

| Path | Needed for |
|---|---|
| ` + "`data/`" + ` | datapack content |
| ` + "`pack.mcmeta`" + ` | datapack metadata |
| ` + "`pack.png`" + ` | pack icon (both archives) |
| ` + "`assets/`" + ` | resource pack content (only with ` + "`--resource-pack`" + `) |
| overlay folders | every ` + "`overlays.entries[].directory`" + ` declared in the metadata |

No archive was written.

## Things you can try:
- Check that ` + "`--source`" + ` points at the folder containing ` + "`data/`" + `, not at ` + "`data/`" + ` itself
- List the overlays your metadata declares:
~~~
$ dpzip overlays ./my_datapack/pack.mcmeta
~~~
- Build without the resource pack:
~~~
$ dpzip build --no-resource-pack
~~~`,
		docLinks: []HttpLink{packFormatDoc, mcmetaDoc},
		extLinks: []HttpLink{resourcePackDoc},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be loaded; built-in defaults are used instead.

## Things you can try:
- Print the file that is being read:
~~~
$ dpzip config path
~~~
- Print a valid configuration to compare against:
~~~
$ dpzip config dump
~~~
- Recreate the default configuration:
~~~
$ dpzip config init --force
~~~`,
	}

	settingsUnavailableIssue = &Issue{
		id: SettingsUnavailableId,
		mdMsg: `
# Saved pack settings could not be used!

The settings file is unreadable or malformed. dpzip continues with empty
settings and rewrites the file on the next successful save; keys owned by
other tools are kept when the file can still be parsed.

## Things you can try:
- Show where the settings live:
~~~
$ dpzip settings path
~~~
- Convert a settings file from older versions:
~~~
$ dpzip settings migrate
~~~`,
	}

	issues = map[Id]*Issue{
		sourceFolderNotSetIssue.Id():  sourceFolderNotSetIssue,
		exportFolderNotSetIssue.Id():  exportFolderNotSetIssue,
		datapackNameNotSetIssue.Id():  datapackNameNotSetIssue,
		invalidDatapackNameIssue.Id(): invalidDatapackNameIssue,
		packFileNotFoundIssue.Id():    packFileNotFoundIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		settingsUnavailableIssue.Id(): settingsUnavailableIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
