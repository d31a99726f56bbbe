package interfaces

// Repositories bundles one implementation of every repository for wiring.
type Repositories struct {
	Users           UserRepository
	Partners        PartnerRepository
	Campaigns       CampaignRepository
	Donations       DonationRepository
	DonationCoupons DonationCouponRepository
	Claims          CouponClaimRepository
	Wallets         WalletRepository
	Coupons         CouponRepository
}
