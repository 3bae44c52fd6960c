// Package validator provides small composable input rules.
//
// Rules capture the value at construction and run when passed to Apply,
// which reports every failure at once:
//
//	err := validator.Apply(
//		validator.Required("priceId", req.PriceID),
//		validator.MaxLen("planName", req.PlanName, 500),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		// errs.Fields() lists the offending fields
//	}
package validator
