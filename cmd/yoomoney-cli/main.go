package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	yoomoney "github.com/northwire/yoomoney-go"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("No .env file loaded")
	}
	if os.Getenv("YOOMONEY_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(context.Background(), os.Args[1:]); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: yoomoney-cli <login|revoke|account-info|request-transfer|process-payment|history|operation-details> [flags]")
	}
	command, args := args[0], args[1:]

	if command == "login" {
		return cmdLogin(ctx, args)
	}

	token := os.Getenv("YOOMONEY_TOKEN")
	if token == "" {
		stored, err := loadToken()
		if err != nil {
			return fmt.Errorf("reading stored token: %w", err)
		}
		token = stored
	}
	if token == "" {
		return errors.New("no token found; run `yoomoney-cli login` first")
	}

	client := yoomoney.New(token)

	switch command {
	case "revoke":
		if err := client.RevokeToken(ctx); err != nil {
			return err
		}
		fmt.Println("Token successfully revoked")
		return nil
	case "account-info":
		return cmdAccountInfo(ctx, client)
	case "request-transfer":
		return cmdRequestTransfer(ctx, client, args)
	case "process-payment":
		return cmdProcessPayment(ctx, client, args)
	case "history":
		return cmdHistory(ctx, client, args)
	case "operation-details":
		return cmdOperationDetails(ctx, client, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	noStore := fs.Bool("no-store", false, "do not store the token on disk")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAuthConfig()
	if err != nil {
		return err
	}

	client := yoomoney.NewUnauthorized(cfg.ClientID, cfg.ClientRedirect)
	scopes := []yoomoney.AccessScope{
		yoomoney.ScopeAccountInfo,
		yoomoney.ScopeOperationHistory,
		yoomoney.ScopePaymentP2P,
	}

	token, err := client.Authorize(ctx, scopes, func(ctx context.Context, redirectAddr string) (string, error) {
		fmt.Printf("Please open this page in your browser: %s\n", redirectAddr)
		fmt.Println("Copy and paste your redirect URI here:")

		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", err
		}
		return extractCode(strings.TrimSpace(line))
	})
	if err != nil {
		return err
	}

	if !*noStore {
		path, err := saveToken(token)
		if err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
		fmt.Printf("Token saved to %s\n", path)
	}
	fmt.Printf("Your permanent token is %q\n", token)
	return nil
}

// extractCode pulls the authorization code out of a pasted redirect URI.
func extractCode(redirectURI string) (string, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("parsing redirect URI: %w", err)
	}
	code := parsed.Query().Get("code")
	if code == "" {
		return "", errors.New("authorization code not found in redirect URI")
	}
	return code, nil
}

func cmdAccountInfo(ctx context.Context, client *yoomoney.Client) error {
	info, err := client.AccountInfo(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Account:  %s (%s, %s)\n", info.Account, info.AccountType, info.AccountStatus)
	fmt.Printf("Balance:  %s %s\n", info.Balance, info.Currency)
	for _, card := range info.CardsLinked {
		fmt.Printf("Card:     %s %s\n", card.Type, card.PanFragment)
	}
	return nil
}

func cmdRequestTransfer(ctx context.Context, client *yoomoney.Client, args []string) error {
	fs := flag.NewFlagSet("request-transfer", flag.ExitOnError)
	toAccount := fs.Uint64("to-account", 0, "recipient wallet account number")
	toEmail := fs.String("to-email", "", "recipient email")
	toPhone := fs.String("to-phone", "", "recipient phone number")
	amountTotal := fs.String("amount-total", "", "amount charged to the sender")
	amountNet := fs.String("amount-net", "", "amount the recipient receives")
	comment := fs.String("comment", "", "comment shown in the sender history")
	message := fs.String("message", "", "message shown to the recipient")
	label := fs.String("label", "", "payment label")
	codepro := fs.Bool("codepro", false, "protect the transfer with a code")
	holdForPickup := fs.Bool("hold-for-pickup", false, "hold the transfer for pickup")
	expirePeriod := fs.Uint("expire-period", 1, "days the protected transfer stays claimable")
	testPayment := fs.Bool("test", false, "send as a test payment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var to yoomoney.UserID
	switch {
	case *toAccount != 0:
		to = yoomoney.AccountID(*toAccount)
	case *toEmail != "":
		to = yoomoney.EmailID(*toEmail)
	case *toPhone != "":
		to = yoomoney.PhoneID(*toPhone)
	default:
		return errors.New("recipient not specified")
	}

	var amount yoomoney.RequestAmount
	switch {
	case *amountTotal != "":
		v, err := decimal.NewFromString(*amountTotal)
		if err != nil {
			return fmt.Errorf("parsing amount: %w", err)
		}
		amount = yoomoney.AmountTotal(v)
	case *amountNet != "":
		v, err := decimal.NewFromString(*amountNet)
		if err != nil {
			return fmt.Errorf("parsing amount: %w", err)
		}
		amount = yoomoney.AmountNet(v)
	default:
		return errors.New("transfer amount not specified")
	}

	request := client.RequestTransfer(to, amount, *comment, *message, *label, *codepro, *holdForPickup, uint32(*expirePeriod))

	var result *yoomoney.RequestPaymentResult
	var err error
	if *testPayment {
		result, err = request.Test().Send(ctx)
	} else {
		result, err = request.Send(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Request id: %s\n", result.RequestID)
	fmt.Printf("Balance:    %s\n", result.Balance)
	if result.HoldForPickup {
		fmt.Println("The transfer is held for pickup")
	}
	if result.MoneySource.Wallet.Allowed {
		fmt.Println("Payable from wallet")
	}
	for _, card := range result.MoneySource.Cards.Items {
		fmt.Printf("Payable from card %s (%s %s)\n", card.ID, card.Type, card.PanFragment)
	}
	return nil
}

func cmdProcessPayment(ctx context.Context, client *yoomoney.Client, args []string) error {
	fs := flag.NewFlagSet("process-payment", flag.ExitOnError)
	requestID := fs.String("request-id", "", "payment request id")
	moneySource := fs.String("money-source", "wallet", "wallet or a linked card id")
	extAuthSuccess := fs.String("ext-auth-success-uri", "", "3-D Secure success URI")
	extAuthFail := fs.String("ext-auth-fail-uri", "", "3-D Secure failure URI")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *requestID == "" {
		return errors.New("request id not specified")
	}

	var source yoomoney.PaymentSource
	if *moneySource == "wallet" {
		source = yoomoney.WalletSource{}
	} else {
		card := yoomoney.CardSourceRef{ID: *moneySource}
		if *extAuthSuccess != "" || *extAuthFail != "" {
			card.Secure3D = &yoomoney.Secure3DData{
				ExtAuthSuccessURI: *extAuthSuccess,
				ExtAuthFailURI:    *extAuthFail,
			}
		}
		source = card
	}

	result, err := client.ProcessPayment(ctx, *requestID, source)
	if err != nil {
		var inProgress yoomoney.InProgressError
		if errors.As(err, &inProgress) {
			fmt.Printf("Payment still in progress, retry after %d ms\n", inProgress.NextRetry)
			return nil
		}
		return err
	}

	fmt.Printf("Payment id: %s\n", result.PaymentID)
	fmt.Printf("Invoice id: %s\n", result.InvoiceID)
	fmt.Printf("Credited:   %s (%s -> %s)\n", result.CreditAmount, result.Payer, result.Payee)
	fmt.Printf("Balance:    %s\n", result.Balance)
	return nil
}

func cmdHistory(ctx context.Context, client *yoomoney.Client, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	from := fs.String("from", "", "lower bound, RFC3339")
	till := fs.String("till", "", "upper bound, RFC3339")
	label := fs.String("label", "", "filter by payment label")
	detailed := fs.Bool("detailed", false, "request detailed records")
	start := fs.Uint64("start-record", 0, "cursor to start from")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := yoomoney.HistoryRequest{
		Label:       *label,
		Details:     *detailed,
		StartRecord: *start,
	}
	if *from != "" {
		v, err := time.Parse(time.RFC3339, *from)
		if err != nil {
			return fmt.Errorf("parsing -from: %w", err)
		}
		req.From = &v
	}
	if *till != "" {
		v, err := time.Parse(time.RFC3339, *till)
		if err != nil {
			return fmt.Errorf("parsing -till: %w", err)
		}
		req.Till = &v
	}

	for result := range client.OperationHistory(ctx, req) {
		if result.Error != nil {
			return result.Error
		}
		op := result.Operation
		fmt.Printf("%s  %-28s %3s %10s  %s (%s)\n",
			op.Datetime.Format(time.RFC3339), op.OperationID, op.Direction, op.Amount, op.Title, op.Status)
	}
	return nil
}

func cmdOperationDetails(ctx context.Context, client *yoomoney.Client, args []string) error {
	fs := flag.NewFlagSet("operation-details", flag.ExitOnError)
	operationID := fs.String("operation-id", "", "operation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *operationID == "" {
		return errors.New("operation id not specified")
	}

	details, err := client.OperationDetails(ctx, *operationID)
	if err != nil {
		return err
	}
	fmt.Printf("Operation:  %s (%s, %s)\n", details.OperationID, details.OperationType, details.Status)
	fmt.Printf("Datetime:   %s\n", details.Datetime.Format(time.RFC3339))
	fmt.Printf("Amount:     %s (%s)\n", details.Amount, details.Direction)
	if details.Fee != nil {
		fmt.Printf("Fee:        %s\n", details.Fee)
	}
	if details.Sender != "" {
		fmt.Printf("Sender:     %s\n", details.Sender)
	}
	if details.Recipient != "" {
		fmt.Printf("Recipient:  %s (%s)\n", details.Recipient, details.RecipientType)
	}
	if details.Message != "" {
		fmt.Printf("Message:    %s\n", details.Message)
	}
	if details.Comment != "" {
		fmt.Printf("Comment:    %s\n", details.Comment)
	}
	return nil
}
