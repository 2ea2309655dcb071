// Package stats implementa las rutinas numéricas del motor analítico como
// funciones puras sobre secuencias de float64, independientes del storage:
// regresión lineal, autocorrelación y z-scores. Así se testean con series
// literales sin base de datos.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean devuelve la media aritmética (0 para serie vacía).
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev devuelve la desviación estándar poblacional (0 si n < 2).
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := stat.Mean(values, nil)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// ZScore devuelve cuántas desviaciones estándar se aleja value de mean.
// Con stddev 0 devuelve 0 (serie constante: nada es anómalo).
func ZScore(value, mean, stddev float64) float64 {
	if stddev == 0 {
		return 0
	}
	return (value - mean) / stddev
}

// LinearFit es el resultado de un ajuste por mínimos cuadrados sobre
// (índice, valor).
type LinearFit struct {
	Intercept float64
	Slope     float64
	R2        float64 // bondad del ajuste en [0,1]
}

// FitLine ajusta una recta por mínimos cuadrados a la serie, usando el índice
// del punto como variable independiente. Con menos de 2 puntos devuelve un
// ajuste plano.
func FitLine(values []float64) LinearFit {
	n := len(values)
	if n < 2 {
		var level float64
		if n == 1 {
			level = values[0]
		}
		return LinearFit{Intercept: level}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, values, nil, false)
	r2 := rSquared(xs, values, alpha, beta)
	return LinearFit{Intercept: alpha, Slope: beta, R2: r2}
}

// Predict evalúa la recta ajustada en el índice x.
func (f LinearFit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// rSquared calcula el coeficiente de determinación del ajuste, acotado a [0,1].
func rSquared(xs, ys []float64, alpha, beta float64) float64 {
	mean := stat.Mean(ys, nil)
	var ssRes, ssTot float64
	for i, y := range ys {
		pred := alpha + beta*xs[i]
		ssRes += (y - pred) * (y - pred)
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		// Serie constante: la recta la explica exactamente.
		return 1
	}
	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}

// Autocorrelation devuelve el coeficiente de autocorrelación de la serie en el
// lag dado, en [-1,1]. Devuelve 0 si el lag no deja pares suficientes o si la
// serie es constante.
func Autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || n-lag < 2 {
		return 0
	}
	mean := stat.Mean(values, nil)
	var num, den float64
	for _, v := range values {
		den += (v - mean) * (v - mean)
	}
	if den == 0 {
		return 0
	}
	for i := 0; i < n-lag; i++ {
		num += (values[i] - mean) * (values[i+lag] - mean)
	}
	return num / den
}
