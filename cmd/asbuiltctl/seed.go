package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xelth-com/asbuiltgo/internal/app"
	"github.com/xelth-com/asbuiltgo/internal/models"
)

var (
	demoBuildings   = []string{"Bloco A", "Bloco B", "Bloco C"}
	demoFloors      = []string{"Térreo", "1º Pavimento", "2º Pavimento"}
	demoStatuses    = []string{"VERIFICADA", "PENDENTE", "REVISAR", "VERIFICADA", "EM REVISÃO", "PENDENTE"}
	demoDisciplines = []string{"Elétrica", "Hidráulica", "Civil", "Climatização", ""}
	demoDivergences = []string{
		"Ponto elétrico deslocado",
		"Tubulação fora de projeto",
		"Forro rebaixado divergente",
		"Luminária não instalada",
	}
)

// demoDataset builds a deterministic dataset: every building gets rooms on
// each floor, issues spread over six weeks and one room above the critical
// threshold.
func demoDataset(batchID string, start time.Time) ([]models.Room, []models.Issue) {
	var rooms []models.Room
	var issues []models.Issue
	released := "LIBERADO"

	n := 0
	for _, building := range demoBuildings {
		for f, floor := range demoFloors {
			for i := 0; i < 4; i++ {
				status := demoStatuses[n%len(demoStatuses)]
				room := models.Room{
					Building:   building,
					Floor:      floor,
					Sector:     fmt.Sprintf("S%d", f+1),
					Name:       fmt.Sprintf("%s %d%02d", building, f, i+1),
					RoomNumber: fmt.Sprintf("%d%02d", f, i+1),
					Status:     status,
					BatchID:    batchID,
				}
				if status == "VERIFICADA" {
					verified := start.AddDate(0, 0, 7*(n%6))
					room.VerifiedAt = &verified
					if n%4 == 0 {
						room.StatusRA = &released
					}
				}
				rooms = append(rooms, room)

				count := n % 5
				if n == 7 {
					count = 12
				}
				for k := 0; k < count; k++ {
					issue := models.Issue{
						Number:     len(issues) + 1,
						Date:       start.AddDate(0, 0, 7*((n+k)%6)+k%3),
						Building:   building,
						Floor:      floor,
						Sector:     room.Sector,
						RoomName:   room.Name,
						Discipline: demoDisciplines[(n+k)%len(demoDisciplines)],
						BatchID:    batchID,
					}
					if k%2 == 0 {
						d := demoDivergences[(n+k)%len(demoDivergences)]
						issue.Divergence = &d
					}
					issues = append(issues, issue)
				}
				n++
			}
		}
	}
	return rooms, issues
}

func newSeedCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo dataset",
		Long: `Load a demo dataset of three buildings for trying out the dashboard.
The current rooms and issues are replaced, so a non-empty database needs --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				existing, err := a.Services.Store.ListRooms(ctx, "")
				if err != nil {
					return err
				}
				if len(existing) > 0 && !force {
					return errors.New("database already has rooms, use --force to replace them")
				}

				batchID := uuid.NewString()
				start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -42)
				rooms, issues := demoDataset(batchID, start)

				upload := &models.Upload{
					BatchID:     batchID,
					FileName:    "demo-seed",
					UploadedBy:  models.SystemUserID,
					TotalRooms:  len(rooms),
					TotalIssues: len(issues),
					Status:      models.UploadStatusProcessed,
				}
				if err := a.Services.Store.ReplaceDataset(ctx, rooms, issues, upload); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "🌱 seeded %d rooms and %d issues (batch %s)\n", len(rooms), len(issues), batchID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing dataset")
	return cmd
}
