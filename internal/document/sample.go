package document

import (
	"encoding/json"
	"math"
	"time"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
	"github.com/DivXPro/canvas-editor-sub000/internal/typeid"
)

func solid(color string) []json.RawMessage {
	return []json.RawMessage{json.RawMessage(`{"type":"solid","color":"` + color + `"}`)}
}

func NewSampleDocument(projectID string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)

	pageID := typeid.NewNodeID()
	rectID := typeid.NewNodeID()
	ellipseID := typeid.NewNodeID()
	titleID := typeid.NewNodeID()
	groupID := typeid.NewNodeID()

	return &Document{
		Project: Project{
			ID:         projectID,
			Name:       "Untitled",
			Version:    1,
			CreatedAt:  now,
			UpdatedAt:  now,
			Background: "#1e1e1e",
		},
		Pages: []scene.Record{
			{
				ID:       pageID,
				Name:     "Page 1",
				Kind:     string(scene.KindFrame),
				Position: geometry.Pt(640, 360),
				Size:     geometry.Size{Width: 1280, Height: 720},
				Fills:    solid("#ffffff"),
				Children: []scene.Record{
					{
						ID:       rectID,
						Name:     "Rectangle",
						Kind:     string(scene.KindRectangle),
						Position: geometry.Pt(-400, -150),
						Size:     geometry.Size{Width: 200, Height: 120},
						Fills:    solid("#e94560"),
						Strokes:  []json.RawMessage{json.RawMessage(`{"color":"#16213e","width":2}`)},
					},
					{
						ID:       ellipseID,
						Name:     "Ellipse",
						Kind:     string(scene.KindEllipse),
						Position: geometry.Pt(-100, -150),
						Size:     geometry.Size{Width: 150, Height: 150},
						Fills:    solid("#0f3460"),
					},
					{
						ID:       titleID,
						Name:     "Title",
						Kind:     string(scene.KindText),
						Position: geometry.Pt(0, -300),
						Size:     geometry.Size{Width: 320, Height: 40},
						Text:     &scene.TextData{Characters: "Canvas", FontSize: 32, FontFamily: "Inter"},
					},
					{
						ID:       groupID,
						Name:     "Badges",
						Kind:     string(scene.KindGroup),
						Position: geometry.Pt(250, 100),
						Rotation: math.Pi / 12,
						Children: []scene.Record{
							{
								ID:       typeid.NewNodeID(),
								Name:     "Badge A",
								Kind:     string(scene.KindRectangle),
								Position: geometry.Pt(-60, 0),
								Size:     geometry.Size{Width: 100, Height: 100},
								Fills:    solid("#f5a623"),
							},
							{
								ID:       typeid.NewNodeID(),
								Name:     "Badge B",
								Kind:     string(scene.KindRectangle),
								Position: geometry.Pt(60, 0),
								Size:     geometry.Size{Width: 100, Height: 100},
								Fills:    solid("#7ed321"),
							},
						},
					},
				},
			},
		},
	}
}
