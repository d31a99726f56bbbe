package mongodb

import (
	"carefoundation/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

func NewRepositories(db *mongo.Database) *interfaces.Repositories {
	return &interfaces.Repositories{
		Users:           NewUserRepository(db),
		Partners:        NewPartnerRepository(db),
		Campaigns:       NewCampaignRepository(db),
		Donations:       NewDonationRepository(db),
		DonationCoupons: NewDonationCouponRepository(db),
		Claims:          NewCouponClaimRepository(db),
		Wallets:         NewWalletRepository(db),
		Coupons:         NewCouponRepository(db),
	}
}
