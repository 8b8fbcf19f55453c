// Package tables registers the site tables with the core registry.
// Import it for its side effects.
package tables

import "github.com/JonMunkholm/sitegrid/internal/core"

func init() {
	registerAnimeSites()
	registerMangaAggregators()
}

// siteFields are shared by every site table. The editor requires both.
func siteFields() []core.FieldSpec {
	return []core.FieldSpec{
		{Name: "siteName", Label: "Name", Type: core.FieldText, Required: true},
		{Name: "siteAddresses", Label: "Addresses", Type: core.FieldAddressList, Required: true},
	}
}

func registerAnimeSites() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "englishAnimeSites",
			Tab:   "anime",
			Title: "English Streaming Sites",
		},
		FieldSpecs: append(siteFields(),
			core.FieldSpec{Name: "hasAds", Label: "Ads", Type: core.FieldBool},
			core.FieldSpec{Name: "hasAntiAdblock", Label: "Anti-Adblock", Type: core.FieldBool},
			core.FieldSpec{Name: "hasSubs", Label: "Subs", Type: core.FieldBool},
			core.FieldSpec{Name: "hasDubs", Label: "Dubs", Type: core.FieldBool},
			core.FieldSpec{Name: "resolution", Label: "Resolution", Type: core.FieldEnum,
				EnumValues: []string{"360p", "480p", "720p", "1080p"}},
			core.FieldSpec{Name: "editorNotes", Label: "Notes", Type: core.FieldText, Hidden: true},
		),
	})
}

func registerMangaAggregators() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "englishMangaAggregators",
			Tab:   "manga",
			Title: "Aggregators",
		},
		FieldSpecs: append(siteFields(),
			core.FieldSpec{Name: "hasAds", Label: "Ads", Type: core.FieldBool},
			core.FieldSpec{Name: "hasAntiAdblock", Label: "Anti-Adblock", Type: core.FieldBool, Hidden: true},
			core.FieldSpec{Name: "languages", Label: "Languages", Type: core.FieldText},
			core.FieldSpec{Name: "isMobileFriendly", Label: "Mobile Friendly", Type: core.FieldBool, Hidden: true},
			core.FieldSpec{Name: "malSyncSupport", Label: "MAL-Sync", Type: core.FieldBool},
			core.FieldSpec{Name: "hasTachiyomiSupport", Label: "Tachiyomi", Type: core.FieldBool},
			core.FieldSpec{Name: "features", Label: "Features", Type: core.FieldText, Hidden: true},
			core.FieldSpec{Name: "editorNotes", Label: "Notes", Type: core.FieldText, Hidden: true},
		),
	})
}
