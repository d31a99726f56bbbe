package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusPaused    CampaignStatus = "paused"
)

type Campaign struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Category      string             `json:"category,omitempty" bson:"category,omitempty"`
	GoalAmount    float64            `json:"goal_amount" bson:"goal_amount"`
	CurrentAmount float64            `json:"current_amount" bson:"current_amount"`
	Donors        int64              `json:"donors" bson:"donors"`
	Status        CampaignStatus     `json:"status" bson:"status"`
	EndDate       *time.Time         `json:"end_date,omitempty" bson:"end_date,omitempty"`
	CreatedBy     primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type CampaignFilter struct {
	Status   CampaignStatus
	Category string
}
