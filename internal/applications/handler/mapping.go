package handler

import (
	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/applications/transport"
	"talentflow_backend/internal/board"
)

func toBoardStages(stages []ports.Stage) []board.Stage {
	out := make([]board.Stage, len(stages))
	for i, st := range stages {
		out[i] = board.Stage{ID: st.ID, Name: st.Name, SortOrder: st.SortOrder}
	}
	return out
}

func toCards(apps []repository.Application) []board.Card {
	out := make([]board.Card, len(apps))
	for i, app := range apps {
		out[i] = board.Card{
			ApplicationID:  app.ID,
			StageID:        app.StageID,
			Stage:          app.StageName,
			CandidateName:  app.CandidateName,
			CandidateEmail: app.CandidateEmail,
			JobTitle:       app.JobTitle,
			Status:         app.Status,
			ScreeningScore: app.ScreeningScore,
			AppliedAt:      app.AppliedAt,
		}
	}
	return out
}

func toColumns(cols []board.Column) []transport.BoardColumn {
	out := make([]transport.BoardColumn, len(cols))
	for i, col := range cols {
		cards := make([]transport.BoardCard, len(col.Cards))
		for j, card := range col.Cards {
			cards[j] = transport.BoardCard{
				ApplicationID:  card.ApplicationID,
				CandidateName:  card.CandidateName,
				CandidateEmail: card.CandidateEmail,
				JobTitle:       card.JobTitle,
				Stage:          card.Stage,
				Status:         card.Status,
				ScreeningScore: card.ScreeningScore,
				AppliedAt:      card.AppliedAt,
			}
		}
		out[i] = transport.BoardColumn{
			StageID:   col.Stage.ID,
			Name:      col.Stage.Name,
			SortOrder: col.Stage.SortOrder,
			Cards:     cards,
		}
	}
	return out
}
