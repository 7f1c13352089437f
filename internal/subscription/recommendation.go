package subscription

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// LawnCondition describes the overall state of a lawn.
type LawnCondition string

const (
	ConditionNew         LawnCondition = "new"
	ConditionEstablished LawnCondition = "established"
	ConditionRecovering  LawnCondition = "recovering"
)

// SunlightLevel describes how much direct sun a lawn gets.
type SunlightLevel string

const (
	SunlightFull         SunlightLevel = "full-sun"
	SunlightPartialShade SunlightLevel = "partial-shade"
	SunlightFullShade    SunlightLevel = "full-shade"
)

// TrafficLevel describes how heavily a lawn is used.
type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "low"
	TrafficMedium TrafficLevel = "medium"
	TrafficHigh   TrafficLevel = "high"
)

// ProductType tags a catalog product by its role in a care plan.
type ProductType string

const (
	ProductTypeEstablishment ProductType = "establishment"
	ProductTypeMaintenance   ProductType = "maintenance"
	ProductTypeRecovery      ProductType = "recovery"
	ProductTypeProtection    ProductType = "protection"
)

// Priority ranks a product inside a recommended bundle.
type Priority string

const (
	PriorityEssential   Priority = "essential"
	PriorityRecommended Priority = "recommended"
	PriorityOptional    Priority = "optional"
)

// Confidence grades how data-driven a recommendation is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// staleFertilizationDays is the age after which the last fertilization no
// longer counts as recent. Tunable constant kept for behavioral parity
// with the production values; there is no agronomic derivation behind it.
const staleFertilizationDays = 90

// LawnData is the profile the recommendation engine works from. Area is
// in square meters and assumed positive; numeric validation is the
// caller's contract.
type LawnData struct {
	Area              float64       `json:"area"`
	GrassType         string        `json:"grass_type"`
	CurrentCondition  LawnCondition `json:"current_condition"`
	LastFertilization *time.Time    `json:"last_fertilization,omitempty"`
	Sunlight          SunlightLevel `json:"sunlight,omitempty"`
	Traffic           TrafficLevel  `json:"traffic,omitempty"`
}

// CatalogProduct is the slice of a catalog entry the engine needs.
// CoverageArea is square meters covered by one unit.
type CatalogProduct struct {
	ProductID    string  `json:"product_id"`
	VariantID    string  `json:"variant_id"`
	Name         string  `json:"name"`
	BasePrice    float64 `json:"base_price"`
	CoverageArea float64 `json:"coverage_area"`
}

// ProductLookup resolves the single active catalog product for a type.
// Implementations return an error wrapping ErrProductTypeMissing when no
// product is configured for the type.
type ProductLookup interface {
	ProductByType(t ProductType) (*CatalogProduct, error)
}

// RecommendedProduct is one line of a recommended bundle.
type RecommendedProduct struct {
	Product  CatalogProduct `json:"product"`
	Quantity int            `json:"quantity"`
	Priority Priority       `json:"priority"`
}

// AnnualPlan is the financial projection for a recommendation.
type AnnualPlan struct {
	TotalCost  float64 `json:"total_cost"`
	Savings    float64 `json:"savings"`
	Deliveries int     `json:"deliveries"`
}

// SmartRecommendation is the engine's output. Reasons holds one fragment
// per rule that fired, in firing order, so tests can assert the rule
// trace without substring-matching a paragraph.
type SmartRecommendation struct {
	Frequency  int                  `json:"recommended_frequency"`
	Products   []RecommendedProduct `json:"recommended_products"`
	Reasons    []string             `json:"reasons"`
	Confidence Confidence           `json:"confidence"`
	AnnualPlan AnnualPlan           `json:"annual_plan"`
}

// Reasoning joins the rule fragments into the human-readable
// justification shown to the customer.
func (r *SmartRecommendation) Reasoning() string {
	return strings.Join(r.Reasons, " ")
}

// Engine turns a lawn profile into a frequency and product bundle. It is
// stateless apart from its collaborators and safe for concurrent use.
type Engine struct {
	catalog ProductLookup
	now     func() time.Time
}

// NewEngine creates a recommendation engine backed by the given catalog.
func NewEngine(catalog ProductLookup) *Engine {
	return &Engine{catalog: catalog, now: time.Now}
}

// NewEngineWithClock creates an engine with a fixed clock, used by tests
// to pin the fertilization staleness check.
func NewEngineWithClock(catalog ProductLookup, now func() time.Time) *Engine {
	return &Engine{catalog: catalog, now: now}
}

// UnitsFor returns how many units of a product cover the given area.
// Always rounds up: the customer must never receive too little product
// for the stated area.
func UnitsFor(area, coverageArea float64) int {
	units := int(math.Ceil(area / coverageArea))
	if units < 1 {
		units = 1
	}
	return units
}

// GenerateRecommendation evaluates the rule set against a lawn profile.
// Rules run in a fixed order and later rules may override earlier ones;
// that order is a priority policy, not an implementation accident.
func (e *Engine) GenerateRecommendation(lawn LawnData) (*SmartRecommendation, error) {
	rec := &SmartRecommendation{}

	if err := e.applyConditionRule(lawn, rec); err != nil {
		return nil, err
	}
	e.applyStalenessOverride(lawn, rec)
	applySunlightNote(lawn, rec)
	applyTrafficNote(lawn, rec)

	if err := projectAnnualPlan(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// applyConditionRule sets the base frequency, confidence and bundle from
// the lawn's condition and area.
func (e *Engine) applyConditionRule(lawn LawnData, rec *SmartRecommendation) error {
	switch lawn.CurrentCondition {
	case ConditionNew:
		establishment, err := e.catalog.ProductByType(ProductTypeEstablishment)
		if err != nil {
			return err
		}
		rec.Frequency = 30
		rec.Confidence = ConfidenceHigh
		rec.Products = []RecommendedProduct{{
			Product:  *establishment,
			Quantity: UnitsFor(lawn.Area, establishment.CoverageArea),
			Priority: PriorityEssential,
		}}
		rec.Reasons = append(rec.Reasons,
			"A newly seeded lawn needs a steady supply of nutrients, so we start with a 30-day rhythm and a starter fertilizer.")

	case ConditionRecovering:
		recovery, err := e.catalog.ProductByType(ProductTypeRecovery)
		if err != nil {
			return err
		}
		maintenance, err := e.catalog.ProductByType(ProductTypeMaintenance)
		if err != nil {
			return err
		}
		rec.Frequency = 30
		rec.Confidence = ConfidenceHigh
		rec.Products = []RecommendedProduct{
			{
				Product:  *recovery,
				Quantity: UnitsFor(lawn.Area, recovery.CoverageArea),
				Priority: PriorityEssential,
			},
			{
				Product:  *maintenance,
				Quantity: UnitsFor(lawn.Area, maintenance.CoverageArea),
				Priority: PriorityRecommended,
			},
		}
		rec.Reasons = append(rec.Reasons,
			"A recovering lawn gets a regeneration fertilizer every 30 days, with a maintenance fertilizer ready for when it has bounced back.")

	default:
		maintenance, err := e.catalog.ProductByType(ProductTypeMaintenance)
		if err != nil {
			return err
		}
		switch {
		case lawn.Area > 200:
			rec.Frequency = 45
			rec.Confidence = ConfidenceHigh
			rec.Reasons = append(rec.Reasons,
				fmt.Sprintf("With %.0f m² your lawn is large, so a 45-day rhythm keeps nutrition consistent across the whole area.", lawn.Area))
		case lawn.Area < 100:
			rec.Frequency = 60
			rec.Confidence = ConfidenceHigh
			rec.Reasons = append(rec.Reasons,
				fmt.Sprintf("A compact %.0f m² lawn in good shape does well on a relaxed 60-day rhythm.", lawn.Area))
		default:
			rec.Frequency = 45
			rec.Confidence = ConfidenceMedium
			rec.Reasons = append(rec.Reasons,
				"For a mid-sized established lawn the 45-day rhythm is the proven default.")
		}
		rec.Products = []RecommendedProduct{{
			Product:  *maintenance,
			Quantity: UnitsFor(lawn.Area, maintenance.CoverageArea),
			Priority: PriorityEssential,
		}}
	}
	return nil
}

// applyStalenessOverride forces a 30-day rhythm when the last
// fertilization is too old. Freshness of soil nutrition trumps the
// area-based heuristics, but only when the frequency actually changes;
// a no-op override would produce a misleading reasoning fragment.
func (e *Engine) applyStalenessOverride(lawn LawnData, rec *SmartRecommendation) {
	if lawn.LastFertilization == nil {
		return
	}
	elapsed := int(e.now().Sub(*lawn.LastFertilization).Hours() / 24)
	if elapsed <= staleFertilizationDays || rec.Frequency == 30 {
		return
	}
	rec.Frequency = 30
	rec.Confidence = ConfidenceHigh
	rec.Reasons = append(rec.Reasons,
		fmt.Sprintf("Your lawn has not been fertilized for %d days, so we shorten the interval to 30 days to replenish the soil first.", elapsed))
}

// applySunlightNote annotates the reasoning when sunlight and frequency
// pull in different directions. It never changes the frequency itself.
func applySunlightNote(lawn LawnData, rec *SmartRecommendation) {
	switch {
	case lawn.Sunlight == SunlightFull && rec.Frequency > 45:
		rec.Reasons = append(rec.Reasons,
			"Full sun speeds up growth and nutrient use; watch the lawn between deliveries and shorten the rhythm if it pales.")
	case lawn.Sunlight == SunlightFullShade && rec.Frequency < 60:
		rec.Reasons = append(rec.Reasons,
			"In full shade the lawn grows slowly, so leftover product per application is normal.")
	}
}

// applyTrafficNote annotates the reasoning for heavily used lawns.
func applyTrafficNote(lawn LawnData, rec *SmartRecommendation) {
	if lawn.Traffic == TrafficHigh {
		rec.Reasons = append(rec.Reasons,
			"Heavy use stresses the turf; regular feeding helps it regenerate between play sessions.")
	}
}

// projectAnnualPlan fills in the financial projection for the chosen
// frequency: bundle base total per delivery, discounted subscription
// total, deliveries per year, annual cost and annual savings.
func projectAnnualPlan(rec *SmartRecommendation) error {
	var baseTotal float64
	for _, p := range rec.Products {
		baseTotal += p.Product.BasePrice * float64(p.Quantity)
	}

	subscriptionTotal, err := CalculateSubscriptionPrice(baseTotal, rec.Frequency)
	if err != nil {
		return err
	}
	deliveries, err := DeliveriesPerYear(rec.Frequency)
	if err != nil {
		return err
	}
	savings, err := CalculateAnnualSavings(baseTotal, subscriptionTotal, rec.Frequency, 1)
	if err != nil {
		return err
	}

	rec.AnnualPlan = AnnualPlan{
		TotalCost:  subscriptionTotal * float64(deliveries),
		Savings:    savings,
		Deliveries: deliveries,
	}
	return nil
}
