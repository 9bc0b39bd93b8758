package main

import (
	"fmt"

	"legallyai-backend/models"
	"legallyai-backend/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd upserts the sample directory
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the sample lawyer directory",
	Long: `Insert or replace the sample lawyers.

IDs are derived from each lawyer's name, so seeding twice updates the
same rows instead of duplicating them.`,
	RunE: runSeed,
}

// seedID derives a stable lawyer id from name
func seedID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://legallyai.app/lawyers/"+name))
}

func seedLawyers() []*models.Lawyer {
	lawyers := []*models.Lawyer{
		{
			Name:      "Jane Doe",
			Firm:      "Doe & Associates",
			Expertise: []string{"Corporate Law", "Intellectual Property"},
			Location:  "New York, NY",
			Rating:    4.9,
			Reviews:   124,
			AvatarURL: "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=400",
			Bio:       "Advises startups and established companies on formation, financing, licensing and protecting their intellectual property.",
		},
		{
			Name:      "John Smith",
			Firm:      "Smith Legal",
			Expertise: []string{"Criminal Law", "Family Law"},
			Location:  "Los Angeles, CA",
			Rating:    4.8,
			Reviews:   98,
			AvatarURL: "https://images.unsplash.com/photo-1560250097-0b93528c311a?w=400",
			Bio:       "Trial lawyer handling criminal defense, divorce and custody matters with a focus on clear communication.",
		},
		{
			Name:      "Emily White",
			Firm:      "White & Partners",
			Expertise: []string{"Real Estate Law", "Tax Law"},
			Location:  "Chicago, IL",
			Rating:    4.9,
			Reviews:   85,
			AvatarURL: "https://images.unsplash.com/photo-1580489944761-15a19d654956?w=400",
			Bio:       "Handles commercial and residential property transactions and the tax planning that comes with them.",
		},
		{
			Name:      "Michael Brown",
			Firm:      "Brown Immigration",
			Expertise: []string{"Immigration Law"},
			Location:  "Houston, TX",
			Rating:    5.0,
			Reviews:   210,
			AvatarURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400",
			Bio:       "Represents families and employers in visa, residency and citizenship proceedings.",
		},
		{
			Name:      "Sarah Green",
			Firm:      "Green Labor Law",
			Expertise: []string{"Labor Law"},
			Location:  "Phoenix, AZ",
			Rating:    4.7,
			Reviews:   76,
			AvatarURL: "https://images.unsplash.com/photo-1594744803329-e58b31de8bf5?w=400",
			Bio:       "Counsels employers and employees on contracts, workplace disputes and wage claims.",
		},
	}
	for _, l := range lawyers {
		l.ID = seedID(l.Name)
	}
	return lawyers
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repository.NewLawyerRepository(pool)
	lawyers := seedLawyers()
	for _, l := range lawyers {
		if err := repo.Upsert(ctx, l); err != nil {
			return fmt.Errorf("failed to seed %s: %w", l.Name, err)
		}
		logger.Debug("Seeded lawyer", zap.String("id", l.ID.String()), zap.String("name", l.Name))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d lawyers\n", len(lawyers))
	return nil
}
