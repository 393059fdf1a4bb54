package core

// Pair holds a figure on both axes of a budget revision: Initial (semula)
// and Final (menjadi).
type Pair struct {
	Initial Amount `json:"initial"`
	Final   Amount `json:"final"`
}

// Totals are the derived banner figures. They are never stored; compute them
// with Aggregate whenever a document changes.
type Totals struct {
	Revenue        Pair   `json:"totalPendapatan"`
	Sections       []Pair `json:"belanjaTotals"`
	Expenditure    Pair   `json:"totalBelanja"`
	SurplusDeficit Pair   `json:"surplusDefisit"`
	FinancingIn    Pair   `json:"totalPenerimaanPembiayaan"`
	FinancingOut   Pair   `json:"totalPengeluaranPembiayaan"`
	NetFinancing   Pair   `json:"pembiayaanNetto"`
	Residual       Pair   `json:"sisaPembiayaan"`
}

// Change is Final - Initial.
func (p Pair) Change() Amount {
	return p.Final - p.Initial
}

func (p Pair) Add(o Pair) Pair {
	return Pair{Initial: p.Initial + o.Initial, Final: p.Final + o.Final}
}

func (p Pair) Sub(o Pair) Pair {
	return Pair{Initial: p.Initial - o.Initial, Final: p.Final - o.Final}
}

// Pair returns the row's amounts as a Pair.
func (li LineItem) Pair() Pair {
	return Pair{Initial: li.Initial, Final: li.Final}
}

// Change is the row's Final - Initial.
func (li LineItem) Change() Amount {
	return li.Final - li.Initial
}

// SumRows adds up rows on both axes. An empty list sums to zero.
func SumRows(rows []LineItem) Pair {
	var p Pair
	for _, r := range rows {
		p = p.Add(r.Pair())
	}
	return p
}

// Aggregate derives every banner total from doc. It is pure.
func Aggregate(doc Document) Totals {
	t := Totals{
		Revenue:      SumRows(doc.Revenue),
		Sections:     make([]Pair, len(doc.Expenditure)),
		FinancingIn:  SumRows(doc.Financing.In),
		FinancingOut: SumRows(doc.Financing.Out),
	}
	for i, s := range doc.Expenditure {
		t.Sections[i] = SumRows(s.Rows)
		t.Expenditure = t.Expenditure.Add(t.Sections[i])
	}
	t.SurplusDeficit = t.Revenue.Sub(t.Expenditure)
	t.NetFinancing = t.FinancingIn.Sub(t.FinancingOut)
	t.Residual = t.SurplusDeficit.Add(t.NetFinancing)
	return t
}
