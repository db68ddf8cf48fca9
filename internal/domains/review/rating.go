package review

import "github.com/shopspring/decimal"

// AggregateRating is the rating aggregator as a pure function of a
// book's current review ratings: count plus mean rounded to 2 decimal
// places, nil mean iff there are no reviews. Every review transaction
// persists its result on the book row.
func AggregateRating(ratings []int) (count int, average *float64) {
	count = len(ratings)
	if count == 0 {
		return 0, nil
	}

	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}

	mean, _ := sum.Div(decimal.NewFromInt(int64(count))).Round(2).Float64()
	return count, &mean
}
