package search

import (
	"strings"

	"parking-marketplace-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"
)

const SpacesIndex = "parking_spaces"

type spaceDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	SpaceType   string `json:"space_type"`
	IsAvailable bool   `json:"is_available"`
}

func toSpaceDocument(space models.ParkingSpace) spaceDocument {
	doc := spaceDocument{
		ID:          space.ID.String(),
		Title:       space.Title,
		Address:     space.Address,
		City:        strings.ToLower(space.City),
		SpaceType:   string(space.SpaceType),
		IsAvailable: space.IsAvailable,
	}
	if space.Description != nil {
		doc.Description = *space.Description
	}
	return doc
}

func spaceMapping() mapping.IndexMapping {
	keyword := bleve.NewKeywordFieldMapping()
	text := bleve.NewTextFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("address", text)
	doc.AddFieldMappingsAt("city", keyword)
	doc.AddFieldMappingsAt("space_type", keyword)
	doc.AddFieldMappingsAt("is_available", bleve.NewBooleanFieldMapping())

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// SpaceIndex keeps parking spaces searchable by title, description, address and city.
type SpaceIndex struct {
	indexer *IndexingService
}

func NewSpaceIndex(indexer *IndexingService) *SpaceIndex {
	indexer.RegisterMapping(SpacesIndex, spaceMapping())
	return &SpaceIndex{indexer: indexer}
}

func (i *SpaceIndex) IndexSpace(space models.ParkingSpace) error {
	return i.indexer.IndexDocument(SpacesIndex, space.ID.String(), toSpaceDocument(space))
}

func (i *SpaceIndex) IndexSpaces(spaces []models.ParkingSpace) error {
	if len(spaces) == 0 {
		return nil
	}
	docs := make(map[string]interface{}, len(spaces))
	for _, space := range spaces {
		docs[space.ID.String()] = toSpaceDocument(space)
	}
	return i.indexer.BulkIndexDocuments(SpacesIndex, docs)
}

func (i *SpaceIndex) DeleteSpace(id uuid.UUID) error {
	return i.indexer.DeleteDocument(SpacesIndex, id.String())
}

// SearchSpaces returns the ids of available spaces matching text, best match first. city,
// when set, must match exactly (case-insensitive).
func (i *SpaceIndex) SearchSpaces(text, city string, limit, offset int) ([]uuid.UUID, uint64, error) {
	text = strings.TrimSpace(text)

	boolean := bleve.NewBooleanQuery()
	if text != "" {
		should := bleve.NewDisjunctionQuery()
		for _, field := range []string{"title", "address", "description"} {
			match := bleve.NewMatchQuery(text)
			match.SetField(field)
			if field == "title" {
				match.SetBoost(3.0)
			}
			should.AddQuery(match)

			fuzzy := bleve.NewMatchQuery(text)
			fuzzy.SetField(field)
			fuzzy.SetFuzziness(1)
			fuzzy.SetBoost(0.5)
			should.AddQuery(fuzzy)
		}
		prefix := bleve.NewPrefixQuery(strings.ToLower(text))
		prefix.SetField("title")
		should.AddQuery(prefix)
		boolean.AddMust(should)
	} else {
		boolean.AddMust(bleve.NewMatchAllQuery())
	}

	if city = strings.TrimSpace(city); city != "" {
		cityQuery := bleve.NewTermQuery(strings.ToLower(city))
		cityQuery.SetField("city")
		boolean.AddMust(cityQuery)
	}

	available := bleve.NewBoolFieldQuery(true)
	available.SetField("is_available")
	boolean.AddMust(available)

	result, err := i.indexer.SearchIndex(SpacesIndex, boolean, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, result.Total, nil
}
