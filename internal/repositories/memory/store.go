package memory

import (
	"carefoundation/internal/repositories/interfaces"
)

func NewRepositories() *interfaces.Repositories {
	return &interfaces.Repositories{
		Users:           NewUserRepository(),
		Partners:        NewPartnerRepository(),
		Campaigns:       NewCampaignRepository(),
		Donations:       NewDonationRepository(),
		DonationCoupons: NewDonationCouponRepository(),
		Claims:          NewCouponClaimRepository(),
		Wallets:         NewWalletRepository(),
		Coupons:         NewCouponRepository(),
	}
}
