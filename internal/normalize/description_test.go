package normalize

import "testing"

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses repeated whitespace",
			input: "  UBER   *  TRIP   HELP  ",
			want:  "UBER * TRIP HELP",
		},
		{
			name:  "uppercases and strips accents",
			input: "Compra com cartão",
			want:  "COMPRA COM CARTAO",
		},
		{
			name:  "keeps star dash slash",
			input: "PAG*JoseSilva 01/02 - parc",
			want:  "PAG*JOSESILVA 01/02 - PARC",
		},
		{
			name:  "punctuation becomes token boundary",
			input: "PIX:JOAO;TED",
			want:  "PIX JOAO TED",
		},
		{
			name:  "empty input",
			input: "   ",
			want:  "",
		},
		{
			name:  "cedilla and tilde",
			input: "Transferência recebida - João Conceição",
			want:  "TRANSFERENCIA RECEBIDA - JOAO CONCEICAO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Description(tt.input); got != tt.want {
				t.Errorf("Description(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDescriptionIsIdempotent(t *testing.T) {
	inputs := []string{
		"  Pagamento   à  vista ",
		"UBER * TRIP",
		"PIX ENVIADO 12/03",
	}
	for _, in := range inputs {
		once := Description(in)
		if twice := Description(once); twice != once {
			t.Errorf("Description not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
