package i18n

var ptBRMessages = map[Code]string{
	CodeNotAuthorized:         "Você não tem permissão para isso no ativo {{.AssetID}}.",
	CodeNotFound:              "O ativo {{.AssetID}} não existe.",
	CodeAlreadyListed:         "O ativo {{.AssetID}} já está à venda.",
	CodeNotListed:             "O ativo {{.AssetID}} não está à venda.",
	CodeInsufficientPayment:   "O pagamento de {{.Payment}} é menor que o preço de {{.Price}}.",
	CodeSelfPurchase:          "Você não pode comprar o seu próprio anúncio.",
	CodeInsufficientAllowance: "A permissão de gasto do ativo {{.AssetID}} é insuficiente.",
	CodeInsufficientBalance:   "O saldo do ativo {{.AssetID}} é insuficiente.",
	CodeInvalidAssetID:        "O ativo {{.AssetID}} ainda não foi criado.",
	CodeAmountOverflow:        "A quantidade excederia o suprimento máximo.",
	CodePrincipalInvalid:      "Um principal é obrigatório.",
	CodeFilterInvalid:         "O filtro não pôde ser interpretado.",
	CodePageTokenInvalid:      "O token de página é inválido.",
	CodeUnauthenticated:       "Entre para continuar.",
	CodeUnknown:               "Algo deu errado.",
}
