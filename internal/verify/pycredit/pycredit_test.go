package pycredit

import "testing"

func TestAnalyze_FullPipeline(t *testing.T) {
	a := Analyze(`from bs4 import BeautifulSoup
soup = BeautifulSoup(ARTIFACT, "html.parser")
el = soup.find("span", id="sku")
print(el.get_text())
`)
	if a.ParseError != "" {
		t.Fatalf("ParseError: %s", a.ParseError)
	}
	if a.Tier != TierQueried {
		t.Errorf("Tier = %v, want TierQueried", a.Tier)
	}
}

func TestAnalyze_ModuleStylePipeline(t *testing.T) {
	a := Analyze(`import bs4
soup = bs4.BeautifulSoup(ARTIFACT, "html.parser")
rows = soup.select("table.specs tr")
`)
	if a.Tier != TierQueried {
		t.Errorf("Tier = %v, want TierQueried", a.Tier)
	}
}

func TestAnalyze_AliasedImport(t *testing.T) {
	a := Analyze(`from bs4 import BeautifulSoup as BS
soup = BS(ARTIFACT, "html.parser")
`)
	if a.Tier != TierLiveParse {
		t.Errorf("Tier = %v, want TierLiveParse", a.Tier)
	}
}

func TestAnalyze_ImportOnly(t *testing.T) {
	a := Analyze(`import bs4
print(len(ARTIFACT))
`)
	if a.Tier != TierImported {
		t.Errorf("Tier = %v, want TierImported", a.Tier)
	}
}

func TestAnalyze_NoLibrary(t *testing.T) {
	a := Analyze(`print(ARTIFACT[:100])`)
	if a.Tier != TierNone {
		t.Errorf("Tier = %v, want TierNone", a.Tier)
	}
}

// Mentions inside comments and string literals are not usage: the
// analysis reads the parse tree, never the raw text.
func TestAnalyze_CommentsAndStringsDontCount(t *testing.T) {
	a := Analyze(`# from bs4 import BeautifulSoup
msg = "soup = BeautifulSoup(ARTIFACT)"
print(msg)
`)
	if a.Tier != TierNone {
		t.Errorf("Tier = %v, want TierNone", a.Tier)
	}
}

// Parsing a hard-coded literal instead of the injected input opens no
// gate above TierImported, even when the dead soup is queried.
func TestAnalyze_LiteralStandIn(t *testing.T) {
	a := Analyze(`from bs4 import BeautifulSoup
soup = BeautifulSoup("<span id='sku'>Widget-42</span>", "html.parser")
print(soup.find("span"))
`)
	if a.Tier != TierImported {
		t.Errorf("Tier = %v, want TierImported (literal stand-in)", a.Tier)
	}
	if a.LiveParse || a.Queried {
		t.Errorf("LiveParse = %v Queried = %v, want both false", a.LiveParse, a.Queried)
	}
}

// A value derived from the live input still counts as live.
func TestAnalyze_DerivedLiveInput(t *testing.T) {
	a := Analyze(`from bs4 import BeautifulSoup
body = ARTIFACT.strip()
soup = BeautifulSoup(body, "html.parser")
`)
	if a.Tier != TierLiveParse {
		t.Errorf("Tier = %v, want TierLiveParse for derived input", a.Tier)
	}

	a = Analyze(`from bs4 import BeautifulSoup
soup = BeautifulSoup(ARTIFACT[100:], "html.parser")
`)
	if a.Tier != TierLiveParse {
		t.Errorf("Tier = %v, want TierLiveParse for sliced input", a.Tier)
	}
}

func TestAnalyze_DeadBranchEarnsNothing(t *testing.T) {
	a := Analyze(`if False:
    from bs4 import BeautifulSoup
    soup = BeautifulSoup(ARTIFACT, "html.parser")
    soup.find("span")
print("done")
`)
	if a.Tier != TierNone {
		t.Errorf("Tier = %v, want TierNone for a constant-false branch", a.Tier)
	}

	a = Analyze(`if 0:
    import bs4
`)
	if a.Tier != TierNone {
		t.Errorf("Tier = %v, want TierNone for an `if 0` branch", a.Tier)
	}
}

func TestAnalyze_LiveBranchCounts(t *testing.T) {
	a := Analyze(`if True:
    import bs4
    soup = bs4.BeautifulSoup(ARTIFACT, "html.parser")
`)
	if a.Tier != TierLiveParse {
		t.Errorf("Tier = %v, want TierLiveParse for a constant-true branch", a.Tier)
	}
}

func TestAnalyze_UncalledFunctionEarnsNothing(t *testing.T) {
	a := Analyze(`def unused():
    from bs4 import BeautifulSoup
    return BeautifulSoup(ARTIFACT, "html.parser")

print("never calls it")
`)
	if a.Tier != TierNone {
		t.Errorf("Tier = %v, want TierNone for an uncalled function", a.Tier)
	}
}

func TestAnalyze_CalledFunctionCounts(t *testing.T) {
	a := Analyze(`def parse():
    from bs4 import BeautifulSoup
    return BeautifulSoup(ARTIFACT, "html.parser")

parse()
`)
	if a.Tier != TierLiveParse {
		t.Errorf("Tier = %v, want TierLiveParse for a called function", a.Tier)
	}
}

func TestAnalyze_CallChainResolves(t *testing.T) {
	a := Analyze(`def inner():
    import bs4
    return bs4.BeautifulSoup(ARTIFACT, "html.parser")

def outer():
    return inner()

outer()
`)
	if a.Tier != TierLiveParse {
		t.Errorf("Tier = %v, want TierLiveParse through a call chain", a.Tier)
	}
}

func TestAnalyze_ParseError(t *testing.T) {
	a := Analyze(`def broken(:`)
	if a.ParseError == "" {
		t.Error("invalid Python should report a parse error")
	}
	if a.Tier != TierNone {
		t.Errorf("Tier = %v, want TierNone on parse error", a.Tier)
	}
}

// Rebinding a soup name to an unrelated value closes its gate.
func TestAnalyze_Rebinding(t *testing.T) {
	a := Analyze(`from bs4 import BeautifulSoup
soup = BeautifulSoup(ARTIFACT, "html.parser")
soup = "just a string now"
soup.find("span")
`)
	// The construction already opened TierLiveParse; the later query
	// on the rebound name must not open TierQueried.
	if a.Tier != TierLiveParse {
		t.Errorf("Tier = %v, want TierLiveParse", a.Tier)
	}
}
