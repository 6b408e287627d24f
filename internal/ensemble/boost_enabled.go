//go:build !noboost

package ensemble

func init() {
	register(KindBoosted, func(p Params) Regressor { return NewGradientBoosting(p) })
}
