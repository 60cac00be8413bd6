package escrow

import "testing"

func TestSplit_Basic(t *testing.T) {
	forward, refund, err := Split(150, 100, 10)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if forward != 90 {
		t.Fatalf("forward=%d want 90", forward)
	}
	if refund != 50 {
		t.Fatalf("refund=%d want 50", refund)
	}
}

func TestSplit_ExactPayment(t *testing.T) {
	forward, refund, err := Split(100, 100, 10)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if forward != 90 || refund != 0 {
		t.Fatalf("forward=%d refund=%d want 90/0", forward, refund)
	}
}

func TestSplit_Underpaid(t *testing.T) {
	_, _, err := Split(99, 100, 10)
	if err != ErrInsufficientPayment {
		t.Fatalf("err=%v want ErrInsufficientPayment", err)
	}
}

func TestSplit_StorageCostTooLarge(t *testing.T) {
	_, _, err := Split(500, 100, 101)
	if err != ErrStorageCostExceedsPrice {
		t.Fatalf("err=%v want ErrStorageCostExceedsPrice", err)
	}
}

func TestSplit_ZeroStorageCost(t *testing.T) {
	forward, refund, err := Split(100, 100, 0)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if forward != 100 || refund != 0 {
		t.Fatalf("forward=%d refund=%d want 100/0", forward, refund)
	}
}

func TestSplit_Conservation(t *testing.T) {
	cases := []struct{ paid, price, cost uint64 }{
		{150, 100, 10},
		{100, 100, 10},
		{1_000_000, 1, 0},
		{77, 77, 77},
	}
	for _, c := range cases {
		forward, refund, err := Split(c.paid, c.price, c.cost)
		if err != nil {
			t.Fatalf("Split(%d,%d,%d) err=%v", c.paid, c.price, c.cost, err)
		}
		if forward+refund+c.cost != c.paid {
			t.Fatalf("Split(%d,%d,%d): %d+%d+%d != paid", c.paid, c.price, c.cost, forward, refund, c.cost)
		}
	}
}

func TestDuplicateRefund(t *testing.T) {
	refund, retained := DuplicateRefund(150, 5)
	if refund != 145 || retained != 5 {
		t.Fatalf("refund=%d retained=%d want 145/5", refund, retained)
	}
}

func TestDuplicateRefund_AllowanceClamped(t *testing.T) {
	refund, retained := DuplicateRefund(3, 5)
	if refund != 0 || retained != 3 {
		t.Fatalf("refund=%d retained=%d want 0/3", refund, retained)
	}
}
