package world

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/younwookim/coopcrawl/internal/domain/entity"
	"github.com/younwookim/coopcrawl/internal/domain/geom"
	"github.com/younwookim/coopcrawl/internal/domain/item"
)

// Merchant tuning.
const (
	MerchantRadius     = 24
	merchantOfferCount = 4
	merchantReach      = 26
	minOfferPrice      = 28
)

// ReasonInStock is returned when a restock is requested while offers remain.
const ReasonInStock = "still in stock"

// Offer is one item for sale. The merchant owns the item until it is sold.
type Offer struct {
	ID    uuid.UUID
	Item  *item.Item
	Price int
	Sold  bool
}

// Choice is what the merchant cursor points at.
type Choice uint8

const (
	ChoiceHealUpgrade Choice = iota
	ChoiceOffer
	ChoiceRestock
)

// Merchant sells a camp's heal upgrade, its offers and a restock. A single
// cursor walks [heal upgrade, offers..., restock].
type Merchant struct {
	Pos             geom.Vec
	Radius          float64
	RestockCost     int
	HealUpgradeCost int
	HealUpgradeSold bool
	Offers          []*Offer
	Cursor          int

	// stockLevel is the level index offers are rolled for.
	stockLevel int
}

// NewMerchant stocks a merchant for a camp reached after levelIndex.
func NewMerchant(rng *rand.Rand, pos geom.Vec, levelIndex, stockLevel int) *Merchant {
	prev := max(0, levelIndex-1)
	return &Merchant{
		Pos:             pos,
		Radius:          MerchantRadius,
		RestockCost:     120 + prev*6,
		HealUpgradeCost: 100 + prev*10,
		Offers:          makeMerchantOffers(rng, stockLevel, merchantOfferCount),
		stockLevel:      stockLevel,
	}
}

func makeMerchantOffers(rng *rand.Rand, levelIndex, count int) []*Offer {
	offers := make([]*Offer, 0, count)
	for range count {
		it := item.MakeRandomItem(rng, item.Options{Level: levelIndex})
		offers = append(offers, &Offer{
			ID:    newUUID(rng),
			Item:  it,
			Price: offerPrice(rng, it, levelIndex),
		})
	}
	return offers
}

func offerPrice(rng *rand.Rand, it *item.Item, levelIndex int) int {
	score := math.Max(10, item.Score(it))
	raw := (score*2.3 + float64(levelIndex)*7) *
		(0.9 + rng.Float64()*0.26) *
		(0.95 + (it.Rarity.Mul()-1)*0.36)
	return max(minOfferPrice, int(math.Round(raw)))
}

// choices is the cursor range: heal upgrade, every offer, restock.
func (m *Merchant) choices() int { return len(m.Offers) + 2 }

// MoveCursor steps the cursor, wrapping at both ends.
func (m *Merchant) MoveCursor(step int) {
	n := m.choices()
	m.Cursor = ((m.Cursor+step)%n + n) % n
}

// Selection resolves the cursor. offer is set only for ChoiceOffer.
func (m *Merchant) Selection() (c Choice, offer *Offer) {
	switch {
	case m.Cursor <= 0:
		return ChoiceHealUpgrade, nil
	case m.Cursor <= len(m.Offers):
		return ChoiceOffer, m.Offers[m.Cursor-1]
	default:
		return ChoiceRestock, nil
	}
}

// InRange reports whether p can trade with the merchant.
func (m *Merchant) InRange(p *entity.Player) bool {
	return p.Alive && p.Pos.Dist(m.Pos) <= p.Radius+m.Radius+merchantReach
}

// SoldOut reports whether every offer has been bought.
func (m *Merchant) SoldOut() bool { return m.remaining() == 0 }

// Sale is the outcome of a purchase attempt on the selected choice.
type Sale struct {
	entity.Result
	Choice Choice
	Cost   int
}

// TryBuy buys the selected choice for p. Failures leave gold, bag and stock
// untouched.
func (m *Merchant) TryBuy(rng *rand.Rand, p *entity.Player) Sale {
	choice, offer := m.Selection()
	s := Sale{Choice: choice}
	if !m.InRange(p) {
		s.Reason = entity.ReasonOutOfRange
		return s
	}

	switch choice {
	case ChoiceHealUpgrade:
		s.Cost = m.HealUpgradeCost
		switch {
		case m.HealUpgradeSold:
			s.Reason = entity.ReasonAlreadyPurchased
		case p.Gold < s.Cost:
			s.Reason = entity.ReasonNotEnoughGold
		default:
			p.Gold -= s.Cost
			m.HealUpgradeSold = true
			p.MaxHealsPerRun++
			p.AddPotion(1)
			s.OK = true
		}

	case ChoiceOffer:
		s.Cost = offer.Price
		s.Item = offer.Item
		switch {
		case offer.Sold:
			s.Reason = entity.ReasonSoldOut
		case p.Gold < s.Cost:
			s.Reason = entity.ReasonNotEnoughGold
		case !p.AddToInventory(offer.Item):
			s.Reason = entity.ReasonBagFull
		default:
			p.Gold -= s.Cost
			offer.Sold = true
			s.OK = true
		}

	case ChoiceRestock:
		s.Cost = m.RestockCost
		switch {
		case !m.SoldOut():
			s.Reason = ReasonInStock
		case p.Gold < s.Cost:
			s.Reason = entity.ReasonNotEnoughGold
		default:
			p.Gold -= s.Cost
			m.Offers = makeMerchantOffers(rng, m.stockLevel, merchantOfferCount)
			s.OK = true
		}
	}
	return s
}

func (m *Merchant) remaining() int {
	n := 0
	for _, o := range m.Offers {
		if !o.Sold {
			n++
		}
	}
	return n
}
