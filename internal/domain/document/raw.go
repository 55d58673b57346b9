package document

import "errors"

// Raw is a source corpus record as produced by the MEDLINE converter.
type Raw struct {
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	Authors         []string `json:"authors"`
	DOI             string   `json:"doi"`
	PublicationDate string   `json:"publication_date,omitempty"`
	MeshHeadings    []string `json:"mesh_headings,omitempty"`
	OtherTerms      []string `json:"other_terms,omitempty"`
}

// Validate rejects records that cannot be embedded.
func (r *Raw) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Abstract == "" {
		return errors.New("abstract is required")
	}
	return nil
}
