package citation

import "github.com/vytor/studybook/internal/models"

// Resolved is the content a citation points at. All fields are empty when
// the source is unknown or has not finished processing.
type Resolved struct {
	Content string `json:"content"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// Empty reports whether there is no content to show.
func (r Resolved) Empty() bool {
	return r.Content == ""
}

// Resolve looks c.SourceID up among a notebook's sources.
func Resolve(sources []models.Source, c *models.Citation) Resolved {
	if c == nil {
		return Resolved{}
	}
	for _, s := range sources {
		if s.ID != c.SourceID {
			continue
		}
		if !s.Ready() {
			return Resolved{}
		}
		return Resolved{Content: s.Content, Summary: s.Summary, URL: s.URL}
	}
	return Resolved{}
}

var icons = map[string]string{
	models.SourceTypePDF:              "file-text",
	models.SourceTypeText:             "file",
	models.SourceTypeWebsite:          "globe",
	models.SourceTypeYouTube:          "youtube",
	models.SourceTypeAudio:            "headphones",
	models.SourceTypeDoc:              "file-type",
	models.SourceTypeMultipleWebsites: "globe",
	models.SourceTypeCopiedText:       "clipboard",
}

// Icon names the icon for a source type. Unknown types get the text icon.
func Icon(sourceType string) string {
	if icon, ok := icons[sourceType]; ok {
		return icon
	}
	return icons[models.SourceTypeText]
}
