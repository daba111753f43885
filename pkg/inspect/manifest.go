package inspect

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/toolchainkit/libdeploy/pkg/types"
)

// ManifestDLLs parses a Windows side-by-side assembly manifest and returns
// the DLL filenames it declares, both as private assembly <file> entries and
// as dependent assembly identities that name a DLL directly. A missing or
// malformed manifest yields nil; manifests are an optional detection source.
func ManifestDLLs(fs types.FS, manifestPath string) []string {
	data, err := fs.ReadFile(manifestPath)
	if err != nil {
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil
	}

	var dlls []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || !strings.HasSuffix(strings.ToLower(name), ".dll") {
			return
		}
		if !seen[name] {
			seen[name] = true
			dlls = append(dlls, name)
		}
	}

	for _, file := range doc.FindElements("//file") {
		add(file.SelectAttrValue("name", ""))
	}
	for _, identity := range doc.FindElements("//dependentAssembly/assemblyIdentity") {
		add(identity.SelectAttrValue("name", ""))
	}

	return dlls
}
