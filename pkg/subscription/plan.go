package subscription

// Plan describes a subscription tier and the usage limits it grants.
type Plan struct {
	ID       string
	Name     string
	Features []FeatureLimit
}

// FeatureLimit pairs a feature key with its usage limit.
type FeatureLimit struct {
	Feature Feature
	Limit   Limit
}

// Plan ids of the default catalog.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
	PlanPro     = "pro"
)

// FallbackPlanID is where unknown prices and plans resolve to.
const FallbackPlanID = PlanFree

// DefaultPlans is the built-in catalog. Free comes first so it is also the
// catalog default.
var DefaultPlans = []Plan{
	{
		ID:   PlanFree,
		Name: "Free",
		Features: []FeatureLimit{
			{Feature: FeatureMockInterview, Limit: 2},
			{Feature: FeatureResumeReview, Limit: 1},
			{Feature: FeatureCodingChallenge, Limit: 10},
			{Feature: FeatureAIFeedback, Limit: 5},
		},
	},
	{
		ID:   PlanPremium,
		Name: "Premium",
		Features: []FeatureLimit{
			{Feature: FeatureMockInterview, Limit: 20},
			{Feature: FeatureResumeReview, Limit: 10},
			{Feature: FeatureCodingChallenge, Limit: 100},
			{Feature: FeatureAIFeedback, Limit: 50},
		},
	},
	{
		ID:   PlanPro,
		Name: "Pro",
		Features: []FeatureLimit{
			{Feature: FeatureMockInterview, Limit: Unlimited},
			{Feature: FeatureResumeReview, Limit: Unlimited},
			{Feature: FeatureCodingChallenge, Limit: Unlimited},
			{Feature: FeatureAIFeedback, Limit: Unlimited},
		},
	},
}

// FeatureLimits flattens the plan's features into a map keyed by feature.
// The last declaration wins when a key repeats.
func FeatureLimits(p Plan) map[Feature]Limit {
	limits := make(map[Feature]Limit, len(p.Features))
	for _, f := range p.Features {
		limits[f.Feature] = f.Limit
	}
	return limits
}

// LimitFor returns the plan's limit for a feature.
func (p Plan) LimitFor(feature Feature) (Limit, bool) {
	for i := len(p.Features) - 1; i >= 0; i-- {
		if p.Features[i].Feature == feature {
			return p.Features[i].Limit, true
		}
	}
	return 0, false
}
