package holdings

// H is a helper for tests to create a holding with its summed figures.
func H(stock, sector string, investment, presentValue float64) Holding {
	return Holding{
		Stock:        stock,
		Symbol:       stock,
		Sector:       sector,
		Investment:   investment,
		PresentValue: presentValue,
		GainLoss:     presentValue - investment,
	}
}
